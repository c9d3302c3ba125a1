package instrument

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/logging"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// UpdateInstrumentInput: campos nil ficam como estão.
type UpdateInstrumentInput struct {
	Actor       authz.Actor
	ID          uint
	Name        *string
	Description *string
	Type        *string
	Status      *string
	Image       []byte
	RemoveImage bool
}

type UpdateInstrument struct {
	repo   domainInst.Repository
	cache  domainInst.Cache
	images domainInst.ImageStore
	audit  *audit.Dispatcher
}

func NewUpdateInstrument(
	repo domainInst.Repository,
	cache domainInst.Cache,
	images domainInst.ImageStore,
	audit *audit.Dispatcher,
) *UpdateInstrument {
	return &UpdateInstrument{
		repo:   repo,
		cache:  cache,
		images: images,
		audit:  audit,
	}
}

func (uc *UpdateInstrument) Execute(
	ctx context.Context,
	in UpdateInstrumentInput,
) (*models.Instrument, error) {

	if err := authz.RequireCatalogManager(in.Actor); err != nil {
		return nil, err
	}

	inst, err := uc.repo.GetInstrument(ctx, in.ID)
	if err != nil {
		return nil, notFound(in.ID, err)
	}

	errs := fieldErrors{}
	if in.Name != nil {
		validateName(errs, *in.Name)
	}
	if in.Type != nil {
		validateType(errs, *in.Type)
	}
	if in.Status != nil {
		validateStatus(errs, *in.Status)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	changed := []string{}
	if in.Name != nil {
		inst.Name = strings.TrimSpace(*in.Name)
		changed = append(changed, "name")
	}
	if in.Description != nil {
		inst.Description = *in.Description
		changed = append(changed, "description")
	}
	if in.Type != nil {
		inst.Type = *in.Type
		changed = append(changed, "type")
	}
	if in.Status != nil {
		inst.Status = *in.Status
		changed = append(changed, "status")
	}

	oldImage := inst.ImageURL
	if len(in.Image) > 0 {
		url, err := storeImage(ctx, uc.images, in.Image)
		if err != nil {
			return nil, err
		}
		inst.ImageURL = url
		changed = append(changed, "image")
	} else if in.RemoveImage {
		inst.ImageURL = nil
		changed = append(changed, "image")
	}

	if err := uc.repo.UpdateInstrument(ctx, inst); err != nil {
		return nil, notFound(in.ID, err)
	}

	if oldImage != nil && inst.ImageURL != oldImage && uc.images != nil {
		if err := uc.images.Delete(ctx, *oldImage); err != nil {
			logging.FromContext(ctx).Warn("failed to delete replaced image", "url", *oldImage, "error", err)
		}
	}

	invalidate(ctx, uc.cache)

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   "instrument_updated",
		Entity:   "instrument",
		EntityID: &inst.ID,
		Metadata: map[string]any{"fields": changed},
	})

	return inst, nil
}
