package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainRes "github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ReturnReservation struct {
	repo  domainRes.Repository
	locks lock.Manager
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewReturnReservation(
	repo domainRes.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
) *ReturnReservation {
	return &ReturnReservation{
		repo:  repo,
		locks: locks,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *ReturnReservation) Execute(
	ctx context.Context,
	actor authz.Actor,
	reservationID uint,
) (*models.Reservation, error) {

	// instrumento só é conhecido depois de ler a reserva; é imutável
	current, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, reservationNotFound(reservationID, err)
	}

	var updated *models.Reservation

	err = uc.locks.WithLock(ctx, []lock.Key{lock.InstrumentKey(current.InstrumentID)}, func(ctx context.Context) error {
		r, err := uc.repo.GetReservation(ctx, reservationID)
		if err != nil {
			return reservationNotFound(reservationID, err)
		}

		if !authz.CanReturnReservation(actor, r) {
			return httperr.ErrForbidden(
				"not_reservation_owner",
				"Only the member who made this reservation or an admin can return it.",
			)
		}

		if err := domainRes.Return(r, actor.UserID, uc.now()); err != nil {
			return err
		}

		if err := uc.repo.UpdateReservation(ctx, r); err != nil {
			return err
		}

		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Action:   "reservation_returned",
		Entity:   "reservation",
		EntityID: &updated.ID,
		Metadata: map[string]any{"forced": actor.UserID != updated.UserID},
	})

	return updated, nil
}
