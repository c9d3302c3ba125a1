package reservation

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainRes "github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

type DeleteReservation struct {
	repo  domainRes.Repository
	locks lock.Manager
	audit *audit.Dispatcher
}

func NewDeleteReservation(
	repo domainRes.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
) *DeleteReservation {
	return &DeleteReservation{
		repo:  repo,
		locks: locks,
		audit: audit,
	}
}

func (uc *DeleteReservation) Execute(
	ctx context.Context,
	actor authz.Actor,
	reservationID uint,
) error {

	if err := authz.RequireAdmin(actor, "delete reservations"); err != nil {
		return err
	}

	current, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return reservationNotFound(reservationID, err)
	}

	err = uc.locks.WithLock(ctx, []lock.Key{lock.InstrumentKey(current.InstrumentID)}, func(ctx context.Context) error {
		r, err := uc.repo.GetReservation(ctx, reservationID)
		if err != nil {
			return reservationNotFound(reservationID, err)
		}

		if !authz.CanDeleteReservation(actor, r) {
			return httperr.ErrForbidden("admin_only", "Only admins can delete reservations.")
		}

		if err := domainRes.CanDelete(r.ID, domainRes.Status(r.Status)); err != nil {
			return err
		}

		return uc.repo.DeleteReservation(ctx, r.ID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Action:   "reservation_deleted",
		Entity:   "reservation",
		EntityID: &reservationID,
	})

	return nil
}
