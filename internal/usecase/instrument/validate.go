package instrument

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/logging"
)

const maxNameLength = 100

// fieldErrors acumula erros por campo no formato do cliente.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return httperr.ErrValidationFields("Some instrument fields are invalid.", f)
}

func validateName(errs fieldErrors, name string) {
	switch {
	case strings.TrimSpace(name) == "":
		errs.add("name", "is required")
	case len(name) > maxNameLength:
		errs.add("name", fmt.Sprintf("must have at most %d characters", maxNameLength))
	}
}

func validateType(errs fieldErrors, t string) {
	if _, ok := domainInst.ParseType(t); !ok {
		errs.add("type", "must be one of STRING, WIND, PERCUSSION, KEYBOARD")
	}
}

func validateStatus(errs fieldErrors, s string) {
	if _, ok := domainInst.ParseStatus(s); !ok {
		errs.add("status", "must be one of AVAILABLE, OUT_OF_STOCK, MAINTENANCE")
	}
}

func notFound(id uint, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(
			"instrument_not_found",
			fmt.Sprintf("Instrument %d does not exist.", id),
		)
	}
	return err
}

// invalidate nunca falha a operação: cache desatualizado expira sozinho.
func invalidate(ctx context.Context, cache domainInst.Cache) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logging.FromContext(ctx).Warn("catalog cache invalidation failed", "error", err)
	}
}

func storeImage(ctx context.Context, images domainInst.ImageStore, data []byte) (*string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if images == nil {
		return nil, httperr.ErrValidation(
			"image_upload_disabled",
			"Image uploads are not configured on this server; send the instrument without an image.",
		)
	}
	url, err := images.Put(ctx, data)
	if err != nil {
		return nil, err
	}
	return &url, nil
}
