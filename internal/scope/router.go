package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/hollis-dev/homeinv-core/internal/auth"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

// View names for post-mutation redirect targets.
const (
	// ViewAllDevices is the admin landing view after a device mutation.
	ViewAllDevices = "devices/all"

	// ViewOwnDevices is the user landing view; Target.PersonID carries
	// the principal's own person id for the client to parameterise it.
	ViewOwnDevices = "devices/user"
)

// Target is a post-mutation destination.
type Target struct {
	View     string `json:"view"`
	PersonID int64  `json:"person_id,omitempty"`
}

// Router computes where a client should land after a device mutation.
// The destination depends only on the mutating principal's role, never on
// which device was touched or who owns it.
type Router struct {
	people inventory.PersonRepository
}

// NewRouter creates a post-mutation router.
func NewRouter(people inventory.PersonRepository) *Router {
	return &Router{people: people}
}

// Route returns the landing target for the principal: admins go to the
// all-devices view, users to their own-devices view. The user target's
// person id is resolved from the principal's login identity, so the
// destination is stable regardless of whose device was mutated.
//
// A nil principal yields a nil target: unauthenticated flows have no
// landing view.
func (r *Router) Route(ctx context.Context, principal *auth.Principal) (*Target, error) {
	if principal == nil {
		return nil, nil
	}

	if principal.IsAdmin() {
		return &Target{View: ViewAllDevices}, nil
	}

	person, err := r.people.GetByEmail(ctx, principal.Email)
	if err != nil {
		if errors.Is(err, inventory.ErrPersonNotFound) {
			// Account vanished mid-session: no landing view.
			return nil, nil
		}
		return nil, fmt.Errorf("resolving route identity: %w", err)
	}

	return &Target{View: ViewOwnDevices, PersonID: person.ID}, nil
}
