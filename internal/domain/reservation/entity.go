package reservation

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Return(r *models.Reservation, actorID uint, now time.Time) error {
	if err := CanReturn(r.ID, Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusFinished)
	r.ReturnedAt = &now
	r.ReturnedBy = &actorID
	return nil
}

// FindOverlap devolve a primeira reserva ACTIVE que cruza [start, end].
func FindOverlap(
	existing []models.Reservation,
	start calendar.Date,
	end calendar.Date,
) *models.Reservation {
	for i := range existing {
		r := &existing[i]
		if Status(r.Status) != StatusActive {
			continue
		}
		if calendar.DateRangesOverlap(r.StartDate, r.EndDate, start, end) {
			return r
		}
	}
	return nil
}

func ConflictError(instrumentID uint, other *models.Reservation) error {
	return httperr.ErrConflict(
		"instrument_already_reserved",
		fmt.Sprintf(
			"Instrument %d is already reserved from %s to %s; pick dates outside that range.",
			instrumentID, other.StartDate, other.EndDate,
		),
		map[string]any{
			"reservation_id": other.ID,
			"start_date":     other.StartDate.String(),
			"end_date":       other.EndDate.String(),
		},
	)
}
