package feed

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ======================================================
// EVENT
// ======================================================

type Kind string

const (
	KindMeeting     Kind = "meeting"
	KindReservation Kind = "reservation"
)

type Event struct {
	Kind   Kind      `json:"kind"`
	ID     uint      `json:"id"`
	Title  string    `json:"title"`
	Status string    `json:"status"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	AllDay bool      `json:"all_day"`
}

// Compare ordena por início, depois tipo, depois id.
func Compare(a, b Event) int {
	return cmp.Or(
		a.Start.Compare(b.Start),
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.ID, b.ID),
	)
}

// ======================================================
// PORTS (operações de listagem dos dois gerenciadores)
// ======================================================

type ReservationLister interface {
	Mine(ctx context.Context, actor authz.Actor, status string) ([]models.Reservation, error)
}

type MeetingLister interface {
	Mine(ctx context.Context, actor authz.Actor) ([]models.Meeting, error)
	All(ctx context.Context, actor authz.Actor, status string, day *calendar.Date) ([]models.Meeting, error)
}

// ======================================================
// FEED
// ======================================================

// Feed é um snapshot já ordenado por fonte; All faz o merge sob demanda
// e pode ser percorrido quantas vezes for preciso.
type Feed struct {
	reservations []Event
	meetings     []Event
}

func (f *Feed) Len() int {
	return len(f.reservations) + len(f.meetings)
}

func (f *Feed) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		i, j := 0, 0
		for i < len(f.reservations) || j < len(f.meetings) {
			var next Event
			switch {
			case j >= len(f.meetings):
				next = f.reservations[i]
				i++
			case i >= len(f.reservations):
				next = f.meetings[j]
				j++
			case Compare(f.reservations[i], f.meetings[j]) <= 0:
				next = f.reservations[i]
				i++
			default:
				next = f.meetings[j]
				j++
			}
			if !yield(next) {
				return
			}
		}
	}
}

// ======================================================
// USE CASE
// ======================================================

type BuildFeed struct {
	reservations ReservationLister
	meetings     MeetingLister
	loc          *time.Location
}

func NewBuildFeed(
	reservations ReservationLister,
	meetings MeetingLister,
	loc *time.Location,
) *BuildFeed {
	if loc == nil {
		loc = time.UTC
	}
	return &BuildFeed{
		reservations: reservations,
		meetings:     meetings,
		loc:          loc,
	}
}

func (uc *BuildFeed) Execute(
	ctx context.Context,
	viewer authz.Actor,
) (*Feed, error) {

	var (
		reservations []models.Reservation
		meetings     []models.Meeting
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		reservations, err = uc.reservations.Mine(gctx, viewer, "")
		return err
	})

	g.Go(func() error {
		var err error
		if viewer.IsAdmin() {
			meetings, err = uc.meetings.All(gctx, viewer, "", nil)
		} else {
			meetings, err = uc.meetings.Mine(gctx, viewer)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f := &Feed{
		reservations: make([]Event, 0, len(reservations)),
		meetings:     make([]Event, 0, len(meetings)),
	}

	for _, r := range reservations {
		f.reservations = append(f.reservations, uc.reservationEvent(r))
	}
	for _, m := range meetings {
		f.meetings = append(f.meetings, uc.meetingEvent(m))
	}

	slices.SortFunc(f.reservations, Compare)
	slices.SortFunc(f.meetings, Compare)

	return f, nil
}

// reservationEvent expõe o fim como exclusivo (end_date + 1 dia).
func (uc *BuildFeed) reservationEvent(r models.Reservation) Event {
	title := fmt.Sprintf("Reservation #%d", r.ID)
	if r.Instrument != nil {
		title = r.Instrument.Name
	}

	return Event{
		Kind:   KindReservation,
		ID:     r.ID,
		Title:  title,
		Status: r.Status,
		Start:  r.StartDate.Start(uc.loc),
		End:    calendar.ExclusiveEnd(r.EndDate).Start(uc.loc),
		AllDay: true,
	}
}

func (uc *BuildFeed) meetingEvent(m models.Meeting) Event {
	return Event{
		Kind:   KindMeeting,
		ID:     m.ID,
		Title:  fmt.Sprintf("Room %s", m.Room),
		Status: m.Status,
		Start:  m.Day.At(m.StartTime, uc.loc),
		End:    m.Day.At(m.EndTime, uc.loc),
	}
}
