package session

// State is the app-access state derived from loaded identity and
// membership data. The presentation layer reacts to the state; it never
// computes it from raw store reads.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateNoMembership
	StateMember
	StateAdmin
)

// String returns a stable name for logging.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateNoMembership:
		return "no_membership"
	case StateMember:
		return "member"
	case StateAdmin:
		return "admin"
	}
	return "unknown"
}

// Snapshot carries everything the transition rule needs.
type Snapshot struct {
	Loaded        bool   // identity + membership reads have completed
	Authenticated bool   // a user id is present
	Admin         bool   // account role is admin
	HasMembership bool   // a membership assignment exists
}

// Resolve maps a snapshot to an access state. Admins never pass through
// NoMembership — the admin role alone grants access.
func Resolve(s Snapshot) State {
	switch {
	case !s.Loaded:
		return StateLoading
	case !s.Authenticated:
		return StateUnauthenticated
	case s.Admin:
		return StateAdmin
	case !s.HasMembership:
		return StateNoMembership
	default:
		return StateMember
	}
}
