package authz

import (
	"testing"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

func TestReservationPredicates(t *testing.T) {
	owner := Actor{UserID: 1, Role: RoleMember}
	other := Actor{UserID: 2, Role: RoleMember}
	admin := Actor{UserID: 9, Role: RoleAdmin}
	res := &models.Reservation{ID: 10, UserID: 1}

	cases := []struct {
		name       string
		actor      Actor
		wantReturn bool
		wantDelete bool
	}{
		{"owner", owner, true, false},
		{"other member", other, false, false},
		{"admin", admin, true, true},
		{"anonymous", Actor{}, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanReturnReservation(tc.actor, res); got != tc.wantReturn {
				t.Errorf("CanReturnReservation = %v, want %v", got, tc.wantReturn)
			}
			if got := CanDeleteReservation(tc.actor, res); got != tc.wantDelete {
				t.Errorf("CanDeleteReservation = %v, want %v", got, tc.wantDelete)
			}
		})
	}
}

func TestMeetingAndCatalogPredicates(t *testing.T) {
	member := Actor{UserID: 1, Role: RoleMember}
	admin := Actor{UserID: 2, Role: RoleAdmin}

	if CanManageCatalog(member) || !CanManageCatalog(admin) {
		t.Error("catalog management must be admin only")
	}
	if CanMutateMeetingStatus(member) || !CanMutateMeetingStatus(admin) {
		t.Error("meeting status must be admin only")
	}
	if CanDeleteMeeting(member) || !CanDeleteMeeting(admin) {
		t.Error("meeting deletion must be admin only")
	}
	if !CanJoinOrQuit(member) || !CanJoinOrQuit(admin) {
		t.Error("any authenticated user may join or quit")
	}
	if CanJoinOrQuit(Actor{Role: RoleMember}) {
		t.Error("actor without id is not authenticated")
	}
	if CanJoinOrQuit(Actor{UserID: 3, Role: "guest"}) {
		t.Error("unknown roles are not authenticated")
	}
}

func TestGuardsReturnForbidden(t *testing.T) {
	member := Actor{UserID: 1, Role: RoleMember}

	if err := RequireCatalogManager(member); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := RequireAdmin(member, "delete meetings"); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := RequireMember(member); err != nil {
		t.Fatalf("member should pass: %v", err)
	}
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"admin": RoleAdmin, "user": RoleMember, " Member ": RoleMember} {
		got, ok := ParseRole(in)
		if !ok || got != want {
			t.Errorf("ParseRole(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseRole("root"); ok {
		t.Error("root is not a role")
	}
}
