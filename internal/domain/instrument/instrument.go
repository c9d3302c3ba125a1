package instrument

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Type / Status
// ===============================

type Type string

const (
	TypeString     Type = "STRING"
	TypeWind       Type = "WIND"
	TypePercussion Type = "PERCUSSION"
	TypeKeyboard   Type = "KEYBOARD"
)

var Types = []Type{TypeString, TypeWind, TypePercussion, TypeKeyboard}

// Status é definido pelo admin; não diz se o instrumento está livre numa data.
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusOutOfStock  Status = "OUT_OF_STOCK"
	StatusMaintenance Status = "MAINTENANCE"
)

var Statuses = []Status{StatusAvailable, StatusOutOfStock, StatusMaintenance}

func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// CanReserve: só AVAILABLE aceita novas reservas.
func CanReserve(status string) bool {
	return Status(status) == StatusAvailable
}

func NotOrderableError(in *models.Instrument) error {
	return httperr.BusinessError{
		Kind:    httperr.KindInvalidState,
		Code:    "instrument_not_orderable",
		Message: fmt.Sprintf("Instrument %q is %s and cannot be reserved.", in.Name, in.Status),
		Details: map[string]any{
			"instrument_id": in.ID,
			"status":        in.Status,
		},
	}
}

// ===============================
// Ports
// ===============================

type ListFilter struct {
	Type   string
	Status string
}

func (f ListFilter) IsZero() bool {
	return f.Type == "" && f.Status == ""
}

type Repository interface {
	CreateInstrument(ctx context.Context, in *models.Instrument) error
	GetInstrument(ctx context.Context, id uint) (*models.Instrument, error)
	UpdateInstrument(ctx context.Context, in *models.Instrument) error
	DeleteInstrument(ctx context.Context, id uint) error
	ListInstruments(ctx context.Context, filter ListFilter) ([]models.Instrument, error)

	CountActiveReservations(ctx context.Context, instrumentID uint) (int64, error)
}

// Cache guarda a listagem completa do catálogo.
type Cache interface {
	Get(ctx context.Context) ([]models.Instrument, bool, error)
	Set(ctx context.Context, items []models.Instrument, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// ImageStore recebe a imagem enviada e devolve uma URL opaca.
type ImageStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
}
