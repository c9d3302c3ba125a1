package instrument

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logging"
)

// DeleteInstrument recusa instrumentos com reservas ACTIVE; o histórico
// FINISHED é apagado junto.
type DeleteInstrument struct {
	repo   domainInst.Repository
	locks  lock.Manager
	cache  domainInst.Cache
	images domainInst.ImageStore
	audit  *audit.Dispatcher
}

func NewDeleteInstrument(
	repo domainInst.Repository,
	locks lock.Manager,
	cache domainInst.Cache,
	images domainInst.ImageStore,
	audit *audit.Dispatcher,
) *DeleteInstrument {
	return &DeleteInstrument{
		repo:   repo,
		locks:  locks,
		cache:  cache,
		images: images,
		audit:  audit,
	}
}

func (uc *DeleteInstrument) Execute(
	ctx context.Context,
	actor authz.Actor,
	id uint,
) error {

	if err := authz.RequireCatalogManager(actor); err != nil {
		return err
	}

	var image *string

	err := uc.locks.WithLock(ctx, []lock.Key{lock.InstrumentKey(id)}, func(ctx context.Context) error {
		inst, err := uc.repo.GetInstrument(ctx, id)
		if err != nil {
			return notFound(id, err)
		}
		image = inst.ImageURL

		active, err := uc.repo.CountActiveReservations(ctx, id)
		if err != nil {
			return err
		}
		if active > 0 {
			return httperr.ErrInvalidState(
				"instrument_has_active_reservations",
				fmt.Sprintf("Instrument %d has %d ACTIVE reservation(s); return them before deleting it.", id, active),
			)
		}

		return uc.repo.DeleteInstrument(ctx, id)
	})
	if err != nil {
		return err
	}

	if image != nil && uc.images != nil {
		if err := uc.images.Delete(ctx, *image); err != nil {
			logging.FromContext(ctx).Warn("failed to delete instrument image", "url", *image, "error", err)
		}
	}

	invalidate(ctx, uc.cache)

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Action:   "instrument_deleted",
		Entity:   "instrument",
		EntityID: &id,
	})

	return nil
}
