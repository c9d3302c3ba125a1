package feed

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type stubReservations struct {
	items []models.Reservation
	err   error
}

func (s stubReservations) Mine(context.Context, authz.Actor, string) ([]models.Reservation, error) {
	return s.items, s.err
}

type stubMeetings struct {
	mine []models.Meeting
	all  []models.Meeting
}

func (s stubMeetings) Mine(context.Context, authz.Actor) ([]models.Meeting, error) {
	return s.mine, nil
}

func (s stubMeetings) All(context.Context, authz.Actor, string, *calendar.Date) ([]models.Meeting, error) {
	return s.all, nil
}

func collect(f *Feed) []Event {
	return slices.Collect(f.All())
}

func fixtures() (stubReservations, stubMeetings) {
	d := calendar.MustParseDate
	tt := calendar.MustParseTimeOfDay

	res := stubReservations{items: []models.Reservation{
		{ID: 2, StartDate: d("2024-06-10"), EndDate: d("2024-06-12"), Status: "ACTIVE",
			Instrument: &models.Instrument{Name: "Fender Bass"}},
		{ID: 1, StartDate: d("2024-06-01"), EndDate: d("2024-06-01"), Status: "FINISHED"},
	}}
	meet := stubMeetings{
		mine: []models.Meeting{
			{ID: 5, Room: "DYLAN", Day: d("2024-06-10"), StartTime: tt("18:00"), EndTime: tt("19:00"), Status: "ACTIVE"},
			{ID: 4, Room: "MARTIN", Day: d("2024-06-10"), StartTime: tt("00:00"), EndTime: tt("01:00"), Status: "ACTIVE"},
		},
		all: []models.Meeting{
			{ID: 9, Room: "ARMSTRONG", Day: d("2024-06-02"), StartTime: tt("10:00"), EndTime: tt("11:00"), Status: "ACTIVE"},
		},
	}
	return res, meet
}

func TestBuildFeedOrdering(t *testing.T) {
	res, meet := fixtures()
	uc := NewBuildFeed(res, meet, time.UTC)

	f, err := uc.Execute(context.Background(), authz.Actor{UserID: 1, Role: authz.RoleMember})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	got := collect(f)
	if len(got) != 4 || f.Len() != 4 {
		t.Fatalf("events = %d", len(got))
	}

	// meeting 4 e reserva 2 começam juntos em 2024-06-10 00:00: "meeting" < "reservation"
	wantOrder := []struct {
		kind Kind
		id   uint
	}{
		{KindReservation, 1},
		{KindMeeting, 4},
		{KindReservation, 2},
		{KindMeeting, 5},
	}
	for i, w := range wantOrder {
		if got[i].Kind != w.kind || got[i].ID != w.id {
			t.Fatalf("event %d = %s/%d, want %s/%d", i, got[i].Kind, got[i].ID, w.kind, w.id)
		}
	}

	if !slices.IsSortedFunc(got, Compare) {
		t.Fatal("feed must be sorted")
	}
}

func TestReservationEventsUseExclusiveEnd(t *testing.T) {
	res, meet := fixtures()
	loc := time.FixedZone("BRT", -3*3600)
	uc := NewBuildFeed(res, meet, loc)

	f, _ := uc.Execute(context.Background(), authz.Actor{UserID: 1, Role: authz.RoleMember})

	for ev := range f.All() {
		if ev.Kind != KindReservation || ev.ID != 2 {
			continue
		}
		wantEnd := time.Date(2024, 6, 13, 0, 0, 0, 0, loc)
		if !ev.End.Equal(wantEnd) || !ev.AllDay || ev.Title != "Fender Bass" {
			t.Fatalf("unexpected reservation event %+v", ev)
		}
		return
	}
	t.Fatal("reservation 2 missing from feed")
}

func TestFeedIsRestartableAndStopsEarly(t *testing.T) {
	res, meet := fixtures()
	f, _ := NewBuildFeed(res, meet, time.UTC).Execute(context.Background(), authz.Actor{UserID: 1, Role: authz.RoleMember})

	first := collect(f)
	second := collect(f)
	if !slices.Equal(first, second) {
		t.Fatal("iterating twice must yield the same events")
	}

	n := 0
	for range f.All() {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("early break consumed %d events", n)
	}
}

func TestAdminFeedUsesAllMeetings(t *testing.T) {
	res, meet := fixtures()
	f, _ := NewBuildFeed(res, meet, time.UTC).Execute(context.Background(), authz.Actor{UserID: 1, Role: authz.RoleAdmin})

	var meetingIDs []uint
	for ev := range f.All() {
		if ev.Kind == KindMeeting {
			meetingIDs = append(meetingIDs, ev.ID)
		}
	}
	if !slices.Equal(meetingIDs, []uint{9}) {
		t.Fatalf("admin meetings = %v, want [9]", meetingIDs)
	}
}

func TestBuildFeedPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	_, meet := fixtures()
	_, err := NewBuildFeed(stubReservations{err: boom}, meet, time.UTC).
		Execute(context.Background(), authz.Actor{UserID: 1, Role: authz.RoleMember})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}
