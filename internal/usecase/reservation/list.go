package reservation

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	domainRes "github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ListReservations struct {
	repo domainRes.Repository
}

func NewListReservations(repo domainRes.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

// Mine lista as reservas do próprio ator, em qualquer status.
func (uc *ListReservations) Mine(
	ctx context.Context,
	actor authz.Actor,
	status string,
) ([]models.Reservation, error) {

	if err := authz.RequireMember(actor); err != nil {
		return nil, err
	}

	return uc.repo.ListReservations(ctx, domainRes.ListFilter{
		UserID: &actor.UserID,
		Status: status,
	})
}

func (uc *ListReservations) All(
	ctx context.Context,
	actor authz.Actor,
	status string,
) ([]models.Reservation, error) {

	if !authz.CanListAllReservations(actor) {
		return nil, httperr.ErrForbidden("admin_only", "Only admins can list every reservation.")
	}

	return uc.repo.ListReservations(ctx, domainRes.ListFilter{Status: status})
}
