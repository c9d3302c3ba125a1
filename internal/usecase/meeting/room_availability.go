package meeting

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

const (
	DefaultSlot = time.Hour
	minSlot     = 15 * time.Minute
)

// RoomAvailability lista os horários livres de uma sala num dia,
// dentro do horário de funcionamento do estúdio.
type RoomAvailability struct {
	repo  domainMeeting.Repository
	hours domainMeeting.OpeningHours
}

func NewRoomAvailability(
	repo domainMeeting.Repository,
	hours domainMeeting.OpeningHours,
) *RoomAvailability {
	return &RoomAvailability{repo: repo, hours: hours}
}

func (uc *RoomAvailability) Execute(
	ctx context.Context,
	in domainMeeting.AvailabilityInput,
) ([]domainMeeting.TimeSlot, error) {

	room, err := domainMeeting.ParseRoom(string(in.Room))
	if err != nil {
		return nil, err
	}
	if in.Day.IsZero() {
		return nil, httperr.ErrValidationFields(
			"The day is required.",
			map[string][]string{"day": {"is required"}},
		)
	}

	if in.Slot == 0 {
		in.Slot = DefaultSlot
	}
	window := uc.hours.Closes.Duration() - uc.hours.Opens.Duration()
	if in.Slot < minSlot || in.Slot > window || in.Slot%time.Minute != 0 {
		return nil, httperr.ErrValidation(
			"invalid_slot",
			fmt.Sprintf("Slot length must be whole minutes between %s and %s.", minSlot, window),
		)
	}

	meetings, err := uc.repo.ListActiveMeetingsForRoomDay(ctx, string(room), in.Day)
	if err != nil {
		return nil, err
	}

	slots := []domainMeeting.TimeSlot{}
	idx := 0

	for cur := uc.hours.Opens; ; {
		end, ok := cur.Add(in.Slot)
		if !ok || end > uc.hours.Closes {
			break
		}

		// avança reuniões que já terminaram (ordenadas e sem sobreposição)
		for idx < len(meetings) && meetings[idx].EndTime <= cur {
			idx++
		}

		conflict := idx < len(meetings) &&
			calendar.TimeRangesOverlap(cur, end, meetings[idx].StartTime, meetings[idx].EndTime)

		if !conflict {
			slots = append(slots, domainMeeting.TimeSlot{
				Start: cur.Short(),
				End:   end.Short(),
			})
		}

		cur = end
	}

	return slots, nil
}
