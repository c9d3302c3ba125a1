package instrument

import (
	"context"
	"time"

	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logging"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ListInstruments struct {
	repo  domainInst.Repository
	cache domainInst.Cache
	ttl   time.Duration
}

func NewListInstruments(
	repo domainInst.Repository,
	cache domainInst.Cache,
	ttl time.Duration,
) *ListInstruments {
	return &ListInstruments{repo: repo, cache: cache, ttl: ttl}
}

// Execute só usa o cache para a listagem sem filtro.
func (uc *ListInstruments) Execute(
	ctx context.Context,
	filter domainInst.ListFilter,
) ([]models.Instrument, error) {

	if filter.Type != "" {
		if _, ok := domainInst.ParseType(filter.Type); !ok {
			return nil, httperr.ErrValidation("invalid_type", "Unknown instrument type "+filter.Type+".")
		}
	}
	if filter.Status != "" {
		if _, ok := domainInst.ParseStatus(filter.Status); !ok {
			return nil, httperr.ErrValidation("invalid_status", "Unknown instrument status "+filter.Status+".")
		}
	}

	useCache := uc.cache != nil && filter.IsZero() && uc.ttl > 0
	log := logging.FromContext(ctx)

	if useCache {
		items, ok, err := uc.cache.Get(ctx)
		if err != nil {
			log.Warn("catalog cache read failed", "error", err)
		} else if ok {
			return items, nil
		}
	}

	items, err := uc.repo.ListInstruments(ctx, filter)
	if err != nil {
		return nil, err
	}

	if useCache {
		if err := uc.cache.Set(ctx, items, uc.ttl); err != nil {
			log.Warn("catalog cache write failed", "error", err)
		}
	}

	return items, nil
}

func (uc *ListInstruments) Get(ctx context.Context, id uint) (*models.Instrument, error) {
	inst, err := uc.repo.GetInstrument(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}
	return inst, nil
}
