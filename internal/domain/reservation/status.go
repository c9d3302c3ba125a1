package reservation

import (
	"fmt"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusFinished Status = "FINISHED"
)

func InitialStatus() Status {
	return StatusActive
}

// ===============================
// Validations
// ===============================

// CanReturn: só reservas ACTIVE podem ser devolvidas. FINISHED é final.
func CanReturn(id uint, current Status) error {
	if current != StatusActive {
		return httperr.ErrInvalidState(
			"reservation_already_finished",
			fmt.Sprintf("Reservation %d was already returned.", id),
		)
	}
	return nil
}

// CanDelete: apagar exige a reserva devolvida antes.
func CanDelete(id uint, current Status) error {
	if current != StatusFinished {
		return httperr.ErrInvalidState(
			"reservation_still_active",
			fmt.Sprintf("Reservation %d is still ACTIVE; return it before deleting.", id),
		)
	}
	return nil
}
