package reservation

import (
	"context"
	"sync"
	"testing"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	domainRes "github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type fixture struct {
	store *memory.Store

	reserve *Reserve
	ret     *ReturnReservation
	del     *DeleteReservation
	list    *ListReservations

	alice authz.Actor
	bob   authz.Actor
	admin authz.Actor

	instrumentID uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	store := memory.NewStore()
	locks := memory.NewKeyedLocker()
	dispatcher := audit.NewDispatcher(store, nil)
	t.Cleanup(dispatcher.Close)

	f := &fixture{
		store:   store,
		reserve: NewReserve(store, locks, dispatcher),
		ret:     NewReturnReservation(store, locks, dispatcher),
		del:     NewDeleteReservation(store, locks, dispatcher),
		list:    NewListReservations(store),
	}

	for _, u := range []struct {
		actor *authz.Actor
		email string
		role  authz.Role
	}{
		{&f.alice, "alice@example.com", authz.RoleMember},
		{&f.bob, "bob@example.com", authz.RoleMember},
		{&f.admin, "admin@example.com", authz.RoleAdmin},
	} {
		user := &models.User{Name: u.email, Email: u.email, Role: string(u.role)}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}
		*u.actor = authz.Actor{UserID: user.ID, Role: u.role}
	}

	inst := &models.Instrument{Name: "Fender Bass", Type: "STRING", Status: "AVAILABLE"}
	if err := store.CreateInstrument(ctx, inst); err != nil {
		t.Fatalf("seed instrument: %v", err)
	}
	f.instrumentID = inst.ID

	return f
}

func (f *fixture) reserveFor(t *testing.T, actor authz.Actor, start, end string) (*models.Reservation, error) {
	t.Helper()
	return f.reserve.Execute(context.Background(), ReserveInput{
		Actor:        actor,
		InstrumentID: f.instrumentID,
		StartDate:    calendar.MustParseDate(start),
		EndDate:      calendar.MustParseDate(end),
	})
}

func TestReserve(t *testing.T) {
	t.Run("overlapping last day conflicts", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.reserveFor(t, f.alice, "2024-06-01", "2024-06-03")
		if err != nil {
			t.Fatalf("first reservation: %v", err)
		}
		if first.Status != string(domainRes.StatusActive) {
			t.Fatalf("status = %s", first.Status)
		}

		_, err = f.reserveFor(t, f.bob, "2024-06-03", "2024-06-05")
		be, ok := httperr.AsBusiness(err)
		if !ok || be.Kind != httperr.KindConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
		if be.Details["reservation_id"] != first.ID {
			t.Fatalf("conflict should point at reservation %d, got %v", first.ID, be.Details)
		}
	})

	t.Run("adjacent and single-day ranges are fine", func(t *testing.T) {
		f := newFixture(t)

		if _, err := f.reserveFor(t, f.alice, "2024-06-01", "2024-06-03"); err != nil {
			t.Fatalf("first: %v", err)
		}
		if _, err := f.reserveFor(t, f.bob, "2024-06-04", "2024-06-04"); err != nil {
			t.Fatalf("adjacent single day: %v", err)
		}
	})

	t.Run("finished reservations do not block", func(t *testing.T) {
		f := newFixture(t)

		r, _ := f.reserveFor(t, f.alice, "2024-06-01", "2024-06-03")
		if _, err := f.ret.Execute(context.Background(), f.alice, r.ID); err != nil {
			t.Fatalf("return: %v", err)
		}
		if _, err := f.reserveFor(t, f.bob, "2024-06-02", "2024-06-05"); err != nil {
			t.Fatalf("reserve after return: %v", err)
		}
	})

	t.Run("validation and not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.reserveFor(t, f.alice, "2024-06-05", "2024-06-01")
		if !httperr.IsKind(err, httperr.KindValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}

		_, err = f.reserve.Execute(context.Background(), ReserveInput{
			Actor:        f.alice,
			InstrumentID: 999,
			StartDate:    calendar.MustParseDate("2024-06-01"),
			EndDate:      calendar.MustParseDate("2024-06-01"),
		})
		if !httperr.IsBusiness(err, "instrument_not_found") {
			t.Fatalf("expected instrument_not_found, got %v", err)
		}
	})
}

func TestReserveOnlyOrderableInstruments(t *testing.T) {
	for _, status := range []string{"MAINTENANCE", "OUT_OF_STOCK"} {
		t.Run(status, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			inst, err := f.store.GetInstrument(ctx, f.instrumentID)
			if err != nil {
				t.Fatalf("get instrument: %v", err)
			}
			inst.Status = status
			if err := f.store.UpdateInstrument(ctx, inst); err != nil {
				t.Fatalf("update instrument: %v", err)
			}

			_, err = f.reserveFor(t, f.alice, "2024-06-01", "2024-06-03")
			be, ok := httperr.AsBusiness(err)
			if !ok || be.Kind != httperr.KindInvalidState || be.Code != "instrument_not_orderable" {
				t.Fatalf("expected instrument_not_orderable, got %v", err)
			}
			if be.Details["status"] != status {
				t.Fatalf("details should name the status, got %v", be.Details)
			}

			active, _ := f.store.ListActiveReservationsForInstrument(ctx, f.instrumentID)
			if len(active) != 0 {
				t.Fatalf("no reservation should be created, got %d", len(active))
			}
		})
	}
}

func TestReserveConcurrentRequestsNeverDoubleBook(t *testing.T) {
	f := newFixture(t)

	const callers = 16
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.reserveFor(t, f.alice, "2024-07-01", "2024-07-05")
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case httperr.IsKind(err, httperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != callers-1 {
		t.Fatalf("ok=%d conflicts=%d", ok, conflicts)
	}

	active, _ := f.store.ListActiveReservationsForInstrument(context.Background(), f.instrumentID)
	if len(active) != 1 {
		t.Fatalf("active reservations = %d, want 1", len(active))
	}
}

func TestReturn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, _ := f.reserveFor(t, f.alice, "2024-06-01", "2024-06-03")

	_, err := f.ret.Execute(ctx, f.bob, r.ID)
	if !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("non-owner should be forbidden, got %v", err)
	}

	returned, err := f.ret.Execute(ctx, f.admin, r.ID)
	if err != nil {
		t.Fatalf("admin return: %v", err)
	}
	if returned.Status != string(domainRes.StatusFinished) || *returned.ReturnedBy != f.admin.UserID {
		t.Fatalf("unexpected reservation %+v", returned)
	}

	_, err = f.ret.Execute(ctx, f.alice, r.ID)
	if !httperr.IsKind(err, httperr.KindInvalidState) {
		t.Fatalf("second return should fail with invalid state, got %v", err)
	}

	_, err = f.ret.Execute(ctx, f.alice, 4242)
	if !httperr.IsKind(err, httperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r, _ := f.reserveFor(t, f.alice, "2024-06-01", "2024-06-03")

	if err := f.del.Execute(ctx, f.admin, r.ID); !httperr.IsKind(err, httperr.KindInvalidState) {
		t.Fatalf("deleting ACTIVE should be invalid state, got %v", err)
	}

	if _, err := f.ret.Execute(ctx, f.alice, r.ID); err != nil {
		t.Fatalf("return: %v", err)
	}

	if err := f.del.Execute(ctx, f.alice, r.ID); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("owner delete should be forbidden, got %v", err)
	}

	if err := f.del.Execute(ctx, f.admin, r.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	all, err := f.list.All(ctx, f.admin, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	for _, other := range all {
		if other.ID == r.ID {
			t.Fatal("deleted reservation still listed")
		}
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, _ = f.reserveFor(t, f.alice, "2024-06-10", "2024-06-11")
	_, _ = f.reserveFor(t, f.bob, "2024-06-01", "2024-06-02")

	mine, err := f.list.Mine(ctx, f.alice, "")
	if err != nil || len(mine) != 1 || mine[0].UserID != f.alice.UserID {
		t.Fatalf("mine = %+v, err = %v", mine, err)
	}
	if mine[0].Instrument == nil {
		t.Fatal("reservation should carry its instrument")
	}

	if _, err := f.list.All(ctx, f.alice, ""); !httperr.IsKind(err, httperr.KindForbidden) {
		t.Fatalf("member list all should be forbidden, got %v", err)
	}

	all, _ := f.list.All(ctx, f.admin, "")
	if len(all) != 2 || !all[0].StartDate.Before(all[1].StartDate) {
		t.Fatalf("expected 2 reservations ordered by start date, got %+v", all)
	}
}
