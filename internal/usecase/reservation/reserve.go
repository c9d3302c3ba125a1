package reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainRes "github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	Actor        authz.Actor
	InstrumentID uint
	StartDate    calendar.Date
	EndDate      calendar.Date
}

// ======================================================
// USE CASE
// ======================================================

type Reserve struct {
	repo  domainRes.Repository
	locks lock.Manager
	audit *audit.Dispatcher
}

func NewReserve(
	repo domainRes.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
) *Reserve {
	return &Reserve{
		repo:  repo,
		locks: locks,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Reservation, error) {

	if err := authz.RequireMember(in.Actor); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1️⃣ Intervalo de datas
	// --------------------------------------------------
	if !calendar.IsValidDateRange(in.StartDate, in.EndDate) {
		return nil, httperr.ErrValidationFields(
			"The end date must be on or after the start date.",
			map[string][]string{"end_date": {"must be on or after start_date"}},
		)
	}

	var created *models.Reservation

	err := uc.locks.WithLock(ctx, []lock.Key{lock.InstrumentKey(in.InstrumentID)}, func(ctx context.Context) error {

		// --------------------------------------------------
		// 2️⃣ Instrumento
		// --------------------------------------------------
		inst, err := uc.repo.GetInstrument(ctx, in.InstrumentID)
		if err != nil {
			return instrumentNotFound(in.InstrumentID, err)
		}
		if !domainInst.CanReserve(inst.Status) {
			return domainInst.NotOrderableError(inst)
		}

		// --------------------------------------------------
		// 3️⃣ Conflito de datas (só ACTIVE bloqueia)
		// --------------------------------------------------
		active, err := uc.repo.ListActiveReservationsForInstrument(ctx, in.InstrumentID)
		if err != nil {
			return err
		}
		if other := domainRes.FindOverlap(active, in.StartDate, in.EndDate); other != nil {
			return domainRes.ConflictError(in.InstrumentID, other)
		}

		// --------------------------------------------------
		// 4️⃣ Criação
		// --------------------------------------------------
		r := &models.Reservation{
			UserID:       in.Actor.UserID,
			InstrumentID: in.InstrumentID,
			StartDate:    in.StartDate,
			EndDate:      in.EndDate,
			Status:       string(domainRes.InitialStatus()),
		}
		if err := uc.repo.CreateReservation(ctx, r); err != nil {
			return err
		}

		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   "reservation_created",
		Entity:   "reservation",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"instrument_id": created.InstrumentID,
			"start_date":    created.StartDate.String(),
			"end_date":      created.EndDate.String(),
		},
	})

	return created, nil
}

func instrumentNotFound(id uint, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(
			"instrument_not_found",
			fmt.Sprintf("Instrument %d does not exist.", id),
		)
	}
	return err
}

func reservationNotFound(id uint, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(
			"reservation_not_found",
			fmt.Sprintf("Reservation %d does not exist.", id),
		)
	}
	return err
}
