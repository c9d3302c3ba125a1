package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

func TestKeyedLockerSerializesSameKey(t *testing.T) {
	l := NewKeyedLocker()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.WithLock(ctx, []lock.Key{lock.InstrumentKey(7)}, func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxInside)
	}
	if len(l.entries) != 0 {
		t.Fatalf("expected entries to be released, got %d", len(l.entries))
	}
}

func TestKeyedLockerReleasesOnErrorAndHonoursContext(t *testing.T) {
	l := NewKeyedLocker()
	boom := errors.New("boom")
	key := []lock.Key{lock.MeetingKey(1)}

	if err := l.WithLock(context.Background(), key, func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), key, func(context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.WithLock(ctx, key, func(context.Context) error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(release)
}

func TestStoreCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	user := &models.User{Name: "Ana", Email: "ana@example.com", Role: "member"}
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	inst := &models.Instrument{Name: "Bass", Type: "STRING", Status: "AVAILABLE"}
	_ = s.CreateInstrument(ctx, inst)

	res := &models.Reservation{
		UserID:       user.ID,
		InstrumentID: inst.ID,
		StartDate:    calendar.MustParseDate("2024-06-01"),
		EndDate:      calendar.MustParseDate("2024-06-03"),
		Status:       "ACTIVE",
	}
	if err := s.CreateReservation(ctx, res); err != nil {
		t.Fatalf("create reservation: %v", err)
	}

	m := &models.Meeting{
		ReservationID: &res.ID,
		Room:          "DYLAN",
		Day:           calendar.MustParseDate("2024-06-02"),
		StartTime:     calendar.MustParseTimeOfDay("18:00"),
		EndTime:       calendar.MustParseTimeOfDay("19:00"),
		Status:        "ACTIVE",
		Memberships:   []models.MeetingMembership{{UserID: user.ID, JoinedAt: time.Now()}},
	}
	if err := s.CreateMeeting(ctx, m); err != nil {
		t.Fatalf("create meeting: %v", err)
	}

	got, err := s.GetMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("get meeting: %v", err)
	}
	if got.Reservation == nil || got.Reservation.Instrument == nil || got.Memberships[0].User == nil {
		t.Fatalf("meeting not hydrated: %+v", got)
	}

	if err := s.DeleteInstrument(ctx, inst.ID); err != nil {
		t.Fatalf("delete instrument: %v", err)
	}
	if _, err := s.GetReservation(ctx, res.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("reservation should cascade, got %v", err)
	}
	got, _ = s.GetMeeting(ctx, m.ID)
	if got.ReservationID != nil {
		t.Fatal("meeting reservation reference should be cleared")
	}

	if err := s.DeleteMeeting(ctx, m.ID); err != nil {
		t.Fatalf("delete meeting: %v", err)
	}
	if s.MembershipCount(m.ID) != 0 {
		t.Fatal("memberships must be removed with the meeting")
	}
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	inst := &models.Instrument{Name: "Drums", Type: "PERCUSSION", Status: "AVAILABLE"}
	_ = s.CreateInstrument(ctx, inst)

	got, _ := s.GetInstrument(ctx, inst.ID)
	got.Name = "changed"

	again, _ := s.GetInstrument(ctx, inst.ID)
	if again.Name != "Drums" {
		t.Fatalf("store leaked internal state: %s", again.Name)
	}
}

func TestAuditListPaginates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i := 0; i < 5; i++ {
		_ = s.Log(ctx, audit.Event{Action: "reservation_created", Entity: "reservation"})
	}
	_ = s.Log(ctx, audit.Event{Action: "meeting_created", Entity: "meeting"})

	logs, total, err := s.List(ctx, audit.Filter{Entity: "reservation", Limit: 2, Page: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(logs) != 2 {
		t.Fatalf("total=%d len=%d", total, len(logs))
	}
}

func TestDenylistExpires(t *testing.T) {
	ctx := context.Background()
	d := NewTokenDenylist()
	now := time.Now()
	d.now = func() time.Time { return now }

	_ = d.Revoke(ctx, "jti-1", time.Minute)
	if revoked, _ := d.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatal("expected revoked")
	}

	now = now.Add(2 * time.Minute)
	if revoked, _ := d.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatal("expected expiry")
	}
}

func TestCatalogCache(t *testing.T) {
	ctx := context.Background()
	c := NewCatalogCache()

	if _, ok, _ := c.Get(ctx); ok {
		t.Fatal("empty cache should miss")
	}
	_ = c.Set(ctx, []models.Instrument{{ID: 1}}, time.Minute)
	items, ok, _ := c.Get(ctx)
	if !ok || len(items) != 1 {
		t.Fatalf("expected hit, got %v %v", ok, items)
	}
	_ = c.Invalidate(ctx)
	if _, ok, _ := c.Get(ctx); ok {
		t.Fatal("invalidate should clear")
	}
}
