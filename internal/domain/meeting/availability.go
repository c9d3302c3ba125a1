package meeting

import (
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
)

type AvailabilityInput struct {
	Room Room
	Day  calendar.Date
	Slot time.Duration
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// OpeningHours é a janela em que as salas podem ser reservadas.
type OpeningHours struct {
	Opens  calendar.TimeOfDay
	Closes calendar.TimeOfDay
}
