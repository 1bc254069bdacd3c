package membership

import (
	"errors"
	"strings"
)

// NoMembership is the distinguished sentinel for "no assignment". It is
// never stored; assigning it deletes the user's assignment record instead.
const NoMembership = "no-membership"

// NoMembershipName is the display label for the sentinel state.
const NoMembershipName = "No Membership"

// Domain errors
var (
	ErrEmptyPlanName  = errors.New("membership plan name cannot be empty")
	ErrEmptyPlanID    = errors.New("membership plan id cannot be empty")
	ErrReservedPlanID = errors.New("plan id 'no-membership' is reserved")
	ErrPlanNotFound   = errors.New("membership plan not found")
)

// Plan is a membership type offered by the studio.
type Plan struct {
	ID   string
	Name string
}

// Validate checks if the Plan has valid data.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyPlanID
	}
	if p.ID == NoMembership {
		return ErrReservedPlanID
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPlanName
	}
	return nil
}

// Assignment links a user to a membership plan. Absence of an assignment
// means the user has no membership, which gates app access.
type Assignment struct {
	UserID string
	PlanID string
}
