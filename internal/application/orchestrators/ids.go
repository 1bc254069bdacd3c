package orchestrators

import "github.com/google/uuid"

// newID returns gen() when a generator was injected, otherwise a fresh
// uuid. Tests inject deterministic generators.
func newID(gen func() string) string {
	if gen != nil {
		return gen()
	}
	return uuid.New().String()
}
