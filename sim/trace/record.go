package trace

// Movement is one location change of a single copy. Locations use the
// short codes from the wire protocol (bs, hbs, bro, ao, rr, user).
type Movement struct {
	Date string
	From string
	To   string
}
