package meeting

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

func TestAddParticipant(t *testing.T) {
	now := time.Now()

	t.Run("rejects duplicates without changing the set", func(t *testing.T) {
		m := &models.Meeting{ID: 1, Status: string(StatusActive)}
		if _, err := AddParticipant(m, 7, DefaultCapacity, now); err != nil {
			t.Fatalf("first join: %v", err)
		}
		_, err := AddParticipant(m, 7, DefaultCapacity, now)
		if !httperr.IsBusiness(err, "already_participant") {
			t.Fatalf("expected already_participant, got %v", err)
		}
		if m.UsersCount() != 1 {
			t.Fatalf("participants = %d, want 1", m.UsersCount())
		}
	})

	t.Run("enforces capacity", func(t *testing.T) {
		m := &models.Meeting{ID: 2, Status: string(StatusActive)}
		for uid := uint(1); uid <= DefaultCapacity; uid++ {
			if _, err := AddParticipant(m, uid, DefaultCapacity, now); err != nil {
				t.Fatalf("join %d: %v", uid, err)
			}
		}
		_, err := AddParticipant(m, 99, DefaultCapacity, now)
		if !httperr.IsBusiness(err, "meeting_full") {
			t.Fatalf("expected meeting_full, got %v", err)
		}
	})

	t.Run("requires ACTIVE", func(t *testing.T) {
		m := &models.Meeting{ID: 3, Status: string(StatusCancelled)}
		_, err := AddParticipant(m, 1, DefaultCapacity, now)
		if !httperr.IsKind(err, httperr.KindInvalidState) {
			t.Fatalf("expected invalid state, got %v", err)
		}
	})
}

func TestRemoveParticipant(t *testing.T) {
	m := &models.Meeting{ID: 1, Memberships: []models.MeetingMembership{{MeetingID: 1, UserID: 1}, {MeetingID: 1, UserID: 2}}}

	if err := RemoveParticipant(m, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if m.IsParticipant(1) || !m.IsParticipant(2) {
		t.Fatalf("unexpected memberships %+v", m.Memberships)
	}
	if err := RemoveParticipant(m, 1); !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindOverlap(t *testing.T) {
	tt := calendar.MustParseTimeOfDay
	existing := []models.Meeting{
		{ID: 1, Status: string(StatusActive), StartTime: tt("18:00"), EndTime: tt("19:00")},
		{ID: 2, Status: string(StatusCancelled), StartTime: tt("20:00"), EndTime: tt("21:00")},
	}

	if got := FindOverlap(existing, 0, tt("18:30"), tt("19:30")); got == nil || got.ID != 1 {
		t.Fatalf("expected overlap with 1, got %+v", got)
	}
	if got := FindOverlap(existing, 0, tt("19:00"), tt("20:00")); got != nil {
		t.Fatalf("touching boundary must not overlap, got %d", got.ID)
	}
	if got := FindOverlap(existing, 0, tt("20:00"), tt("20:30")); got != nil {
		t.Fatal("cancelled meetings must not block")
	}
	if got := FindOverlap(existing, 1, tt("18:00"), tt("19:00")); got != nil {
		t.Fatal("the meeting itself must be skipped")
	}
}

func TestParseRoomAndStatus(t *testing.T) {
	if _, err := ParseRoom("DYLAN"); err != nil {
		t.Fatalf("DYLAN: %v", err)
	}
	if _, err := ParseRoom("dylan"); !httperr.IsBusiness(err, "invalid_room") {
		t.Fatalf("expected invalid_room, got %v", err)
	}
	if _, err := ParseStatus("DONE"); !httperr.IsKind(err, httperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
