package meeting

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

// AddParticipant valida estado, duplicidade e capacidade e devolve a membership nova.
func AddParticipant(
	m *models.Meeting,
	userID uint,
	capacity int,
	now time.Time,
) (*models.MeetingMembership, error) {
	if err := CanJoin(m.ID, Status(m.Status)); err != nil {
		return nil, err
	}

	if m.IsParticipant(userID) {
		return nil, httperr.ErrConflict(
			"already_participant",
			fmt.Sprintf("You already joined meeting %d.", m.ID),
			map[string]any{"meeting_id": m.ID},
		)
	}

	if m.UsersCount() >= capacity {
		return nil, httperr.ErrConflict(
			"meeting_full",
			fmt.Sprintf("Meeting %d is full (%d of %d participants).", m.ID, m.UsersCount(), capacity),
			map[string]any{"meeting_id": m.ID, "capacity": capacity},
		)
	}

	ms := models.MeetingMembership{
		MeetingID: m.ID,
		UserID:    userID,
		JoinedAt:  now,
	}
	m.Memberships = append(m.Memberships, ms)
	return &ms, nil
}

func RemoveParticipant(m *models.Meeting, userID uint) error {
	for i, ms := range m.Memberships {
		if ms.UserID == userID {
			m.Memberships = append(m.Memberships[:i], m.Memberships[i+1:]...)
			return nil
		}
	}
	return httperr.ErrNotFound(
		"not_a_participant",
		fmt.Sprintf("You are not a participant of meeting %d.", m.ID),
	)
}

// FindOverlap devolve a primeira reunião ACTIVE da mesma sala/dia que cruza [start, end).
func FindOverlap(
	existing []models.Meeting,
	skipID uint,
	start calendar.TimeOfDay,
	end calendar.TimeOfDay,
) *models.Meeting {
	for i := range existing {
		m := &existing[i]
		if m.ID == skipID || !Status(m.Status).BlocksRoom() {
			continue
		}
		if calendar.TimeRangesOverlap(m.StartTime, m.EndTime, start, end) {
			return m
		}
	}
	return nil
}

func ConflictError(room string, day calendar.Date, other *models.Meeting) error {
	return httperr.ErrConflict(
		"room_already_booked",
		fmt.Sprintf(
			"Room %s is already booked on %s from %s to %s; choose another room or time.",
			room, day, other.StartTime.Short(), other.EndTime.Short(),
		),
		map[string]any{
			"meeting_id": other.ID,
			"room":       room,
			"day":        day.String(),
			"start_time": other.StartTime.Short(),
			"end_time":   other.EndTime.Short(),
		},
	)
}

// IsJoinable: ACTIVE, com vaga e sem o usuário.
func IsJoinable(m *models.Meeting, userID uint, capacity int) bool {
	return Status(m.Status) == StatusActive &&
		m.UsersCount() < capacity &&
		!m.IsParticipant(userID)
}
