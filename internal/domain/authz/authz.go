// Package authz concentra as regras de permissão por papel.
// Todas as funções são puras: (ator, recurso) -> bool.
package authz

import (
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole aceita "user" como sinônimo de member (nome usado pelo cliente web).
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, true
	case "member", "user":
		return RoleMember, true
	default:
		return "", false
	}
}

// ===============================
// Actor
// ===============================

type Actor struct {
	UserID uint
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) authenticated() bool {
	return a.UserID != 0 && (a.Role == RoleAdmin || a.Role == RoleMember)
}

// ===============================
// Predicates
// ===============================

func CanManageCatalog(a Actor) bool {
	return a.authenticated() && a.IsAdmin()
}

// CanReturnReservation: dono da reserva ou admin.
func CanReturnReservation(a Actor, r *models.Reservation) bool {
	if !a.authenticated() || r == nil {
		return false
	}
	return a.IsAdmin() || r.UserID == a.UserID
}

// CanDeleteReservation: só admin, mesmo sendo o dono.
func CanDeleteReservation(a Actor, r *models.Reservation) bool {
	return a.authenticated() && a.IsAdmin() && r != nil
}

func CanListAllReservations(a Actor) bool {
	return a.authenticated() && a.IsAdmin()
}

func CanMutateMeetingStatus(a Actor) bool {
	return a.authenticated() && a.IsAdmin()
}

func CanDeleteMeeting(a Actor) bool {
	return a.authenticated() && a.IsAdmin()
}

func CanJoinOrQuit(a Actor) bool {
	return a.authenticated()
}

func CanViewAuditLogs(a Actor) bool {
	return a.authenticated() && a.IsAdmin()
}

// ===============================
// Guards (ForbiddenError)
// ===============================

func RequireCatalogManager(a Actor) error {
	if !CanManageCatalog(a) {
		return httperr.ErrForbidden("catalog_admin_only", "Only admins can manage the instrument catalog.")
	}
	return nil
}

func RequireAdmin(a Actor, action string) error {
	if !a.authenticated() || !a.IsAdmin() {
		return httperr.ErrForbidden("admin_only", "Only admins can "+action+".")
	}
	return nil
}

func RequireMember(a Actor) error {
	if !a.authenticated() {
		return httperr.ErrForbidden("authentication_required", "You must be signed in to do this.")
	}
	return nil
}
