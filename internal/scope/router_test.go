package scope

import (
	"context"
	"testing"

	"github.com/hollis-dev/homeinv-core/internal/auth"
)

func TestRouteAdmin(t *testing.T) {
	f := newFixture(t)

	target, err := f.router.Route(context.Background(), f.admin)
	if err != nil {
		t.Fatalf("Route(admin) error = %v", err)
	}
	if target == nil || target.View != ViewAllDevices {
		t.Errorf("Route(admin) = %+v, want view %q", target, ViewAllDevices)
	}
	if target.PersonID != 0 {
		t.Errorf("Route(admin) PersonID = %d, want unset", target.PersonID)
	}
}

func TestRouteUser(t *testing.T) {
	f := newFixture(t)

	target, err := f.router.Route(context.Background(), f.maria)
	if err != nil {
		t.Fatalf("Route(maria) error = %v", err)
	}
	if target == nil || target.View != ViewOwnDevices {
		t.Fatalf("Route(maria) = %+v, want view %q", target, ViewOwnDevices)
	}
	// The target carries the principal's own id, resolved from the login
	// identity, regardless of whose device triggered the route.
	if target.PersonID != f.mariaID {
		t.Errorf("Route(maria) PersonID = %d, want %d", target.PersonID, f.mariaID)
	}
}

func TestRouteNilPrincipal(t *testing.T) {
	f := newFixture(t)

	target, err := f.router.Route(context.Background(), nil)
	if err != nil {
		t.Fatalf("Route(nil) error = %v", err)
	}
	if target != nil {
		t.Errorf("Route(nil) = %+v, want nil target", target)
	}
}

func TestRouteVanishedAccount(t *testing.T) {
	f := newFixture(t)

	ghost := &auth.Principal{PersonID: 999, Email: "ghost@example.com", Role: auth.RoleUser}
	target, err := f.router.Route(context.Background(), ghost)
	if err != nil {
		t.Fatalf("Route(ghost) error = %v", err)
	}
	if target != nil {
		t.Errorf("Route(ghost) = %+v, want nil target", target)
	}
}
