package instrument

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type CreateInstrumentInput struct {
	Actor       authz.Actor
	Name        string
	Description string
	Type        string
	Status      string
	Image       []byte
}

type CreateInstrument struct {
	repo   domainInst.Repository
	cache  domainInst.Cache
	images domainInst.ImageStore
	audit  *audit.Dispatcher
}

func NewCreateInstrument(
	repo domainInst.Repository,
	cache domainInst.Cache,
	images domainInst.ImageStore,
	audit *audit.Dispatcher,
) *CreateInstrument {
	return &CreateInstrument{
		repo:   repo,
		cache:  cache,
		images: images,
		audit:  audit,
	}
}

func (uc *CreateInstrument) Execute(
	ctx context.Context,
	in CreateInstrumentInput,
) (*models.Instrument, error) {

	if err := authz.RequireCatalogManager(in.Actor); err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = string(domainInst.StatusAvailable)
	}

	errs := fieldErrors{}
	validateName(errs, in.Name)
	validateType(errs, in.Type)
	validateStatus(errs, in.Status)
	if err := errs.err(); err != nil {
		return nil, err
	}

	imageURL, err := storeImage(ctx, uc.images, in.Image)
	if err != nil {
		return nil, err
	}

	inst := &models.Instrument{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Type:        in.Type,
		Status:      in.Status,
		ImageURL:    imageURL,
	}
	if err := uc.repo.CreateInstrument(ctx, inst); err != nil {
		return nil, err
	}

	invalidate(ctx, uc.cache)

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   "instrument_created",
		Entity:   "instrument",
		EntityID: &inst.ID,
	})

	return inst, nil
}
