package instrument

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type fakeImages struct {
	puts    int
	deleted []string
}

func (f *fakeImages) Put(_ context.Context, data []byte) (string, error) {
	f.puts++
	return fmt.Sprintf("https://cdn.example.com/%d.webp", f.puts), nil
}

func (f *fakeImages) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// countingRepo conta as leituras que chegam ao repositório.
type countingRepo struct {
	*memory.Store
	lists int
}

func (r *countingRepo) ListInstruments(ctx context.Context, f domainInst.ListFilter) ([]models.Instrument, error) {
	r.lists++
	return r.Store.ListInstruments(ctx, f)
}

type fixture struct {
	store  *memory.Store
	repo   *countingRepo
	cache  *memory.CatalogCache
	images *fakeImages

	create *CreateInstrument
	update *UpdateInstrument
	del    *DeleteInstrument
	list   *ListInstruments

	admin  authz.Actor
	member authz.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	repo := &countingRepo{Store: store}
	cache := memory.NewCatalogCache()
	images := &fakeImages{}
	dispatcher := audit.NewDispatcher(store, nil)
	t.Cleanup(dispatcher.Close)

	return &fixture{
		store:  store,
		repo:   repo,
		cache:  cache,
		images: images,
		create: NewCreateInstrument(repo, cache, images, dispatcher),
		update: NewUpdateInstrument(repo, cache, images, dispatcher),
		del:    NewDeleteInstrument(repo, memory.NewKeyedLocker(), cache, images, dispatcher),
		list:   NewListInstruments(repo, cache, 0),
		admin:  authz.Actor{UserID: 1, Role: authz.RoleAdmin},
		member: authz.Actor{UserID: 2, Role: authz.RoleMember},
	}
}

func (f *fixture) mustCreate(t *testing.T, name, typ string) *models.Instrument {
	t.Helper()
	inst, err := f.create.Execute(context.Background(), CreateInstrumentInput{
		Actor: f.admin,
		Name:  name,
		Type:  typ,
	})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return inst
}

func ptr[T any](v T) *T { return &v }

func TestCreateInstrument(t *testing.T) {
	t.Run("defaults status to AVAILABLE", func(t *testing.T) {
		f := newFixture(t)
		inst := f.mustCreate(t, "  Gibson SG ", "STRING")

		if inst.Status != "AVAILABLE" {
			t.Fatalf("status = %q, want AVAILABLE", inst.Status)
		}
		if inst.Name != "Gibson SG" {
			t.Fatalf("name = %q, want trimmed", inst.Name)
		}
		if inst.ImageURL != nil {
			t.Fatalf("unexpected image url %q", *inst.ImageURL)
		}
	})

	t.Run("member is forbidden", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.create.Execute(context.Background(), CreateInstrumentInput{
			Actor: f.member, Name: "Drum kit", Type: "PERCUSSION",
		})
		if !httperr.IsKind(err, httperr.KindForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("reports every invalid field", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.create.Execute(context.Background(), CreateInstrumentInput{
			Actor: f.admin, Name: " ", Type: "BRASS", Status: "BROKEN",
		})
		be, ok := httperr.AsBusiness(err)
		if !ok || be.Kind != httperr.KindValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"name", "type", "status"} {
			if len(be.Fields[field]) == 0 {
				t.Errorf("missing error for field %q", field)
			}
		}
	})

	t.Run("stores uploaded image", func(t *testing.T) {
		f := newFixture(t)
		inst, err := f.create.Execute(context.Background(), CreateInstrumentInput{
			Actor: f.admin, Name: "Yamaha P-45", Type: "KEYBOARD", Image: []byte("img"),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if inst.ImageURL == nil || *inst.ImageURL != "https://cdn.example.com/1.webp" {
			t.Fatalf("image url = %v", inst.ImageURL)
		}
	})

	t.Run("image without store is rejected", func(t *testing.T) {
		store := memory.NewStore()
		dispatcher := audit.NewDispatcher(store, nil)
		defer dispatcher.Close()

		uc := NewCreateInstrument(store, nil, nil, dispatcher)
		_, err := uc.Execute(context.Background(), CreateInstrumentInput{
			Actor: authz.Actor{UserID: 1, Role: authz.RoleAdmin},
			Name:  "Flute", Type: "WIND", Image: []byte("img"),
		})
		if !httperr.IsBusiness(err, "image_upload_disabled") {
			t.Fatalf("expected image_upload_disabled, got %v", err)
		}
	})
}

func TestUpdateInstrument(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		f := newFixture(t)
		inst := f.mustCreate(t, "Fender Jazz Bass", "STRING")

		got, err := f.update.Execute(context.Background(), UpdateInstrumentInput{
			Actor:  f.admin,
			ID:     inst.ID,
			Status: ptr("MAINTENANCE"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.Status != "MAINTENANCE" || got.Name != "Fender Jazz Bass" || got.Type != "STRING" {
			t.Fatalf("unexpected instrument %+v", got)
		}
	})

	t.Run("replacing image deletes the old one", func(t *testing.T) {
		f := newFixture(t)
		inst, err := f.create.Execute(context.Background(), CreateInstrumentInput{
			Actor: f.admin, Name: "Cajon", Type: "PERCUSSION", Image: []byte("a"),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := f.update.Execute(context.Background(), UpdateInstrumentInput{
			Actor: f.admin, ID: inst.ID, Image: []byte("b"),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if *got.ImageURL != "https://cdn.example.com/2.webp" {
			t.Fatalf("image url = %s", *got.ImageURL)
		}
		if len(f.images.deleted) != 1 || f.images.deleted[0] != "https://cdn.example.com/1.webp" {
			t.Fatalf("deleted = %v", f.images.deleted)
		}
	})

	t.Run("unknown instrument", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.update.Execute(context.Background(), UpdateInstrumentInput{
			Actor: f.admin, ID: 99, Name: ptr("x"),
		})
		if !httperr.IsBusiness(err, "instrument_not_found") {
			t.Fatalf("expected instrument_not_found, got %v", err)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		f := newFixture(t)
		inst := f.mustCreate(t, "Oboe", "WIND")
		_, err := f.update.Execute(context.Background(), UpdateInstrumentInput{
			Actor: f.admin, ID: inst.ID, Type: ptr("BRASS"),
		})
		if !httperr.IsKind(err, httperr.KindValidation) {
			t.Fatalf("expected validation, got %v", err)
		}
	})
}

func TestDeleteInstrument(t *testing.T) {
	ctx := context.Background()

	t.Run("blocked by active reservation", func(t *testing.T) {
		f := newFixture(t)
		inst := f.mustCreate(t, "Marshall amp", "STRING")

		res := &models.Reservation{
			UserID:       f.member.UserID,
			InstrumentID: inst.ID,
			StartDate:    calendar.MustParseDate("2024-06-01"),
			EndDate:      calendar.MustParseDate("2024-06-02"),
			Status:       "ACTIVE",
		}
		if err := f.store.CreateReservation(ctx, res); err != nil {
			t.Fatalf("seed reservation: %v", err)
		}

		err := f.del.Execute(ctx, f.admin, inst.ID)
		if !httperr.IsBusiness(err, "instrument_has_active_reservations") {
			t.Fatalf("expected instrument_has_active_reservations, got %v", err)
		}

		res.Status = "FINISHED"
		if err := f.store.UpdateReservation(ctx, res); err != nil {
			t.Fatalf("finish reservation: %v", err)
		}
		if err := f.del.Execute(ctx, f.admin, inst.ID); err != nil {
			t.Fatalf("delete after return: %v", err)
		}
		if _, err := f.store.GetReservation(ctx, res.ID); err == nil {
			t.Fatal("finished reservation should be removed with the instrument")
		}
	})

	t.Run("member is forbidden", func(t *testing.T) {
		f := newFixture(t)
		inst := f.mustCreate(t, "Violin", "STRING")
		if err := f.del.Execute(ctx, f.member, inst.ID); !httperr.IsKind(err, httperr.KindForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("unknown instrument", func(t *testing.T) {
		f := newFixture(t)
		if err := f.del.Execute(ctx, f.admin, 42); !httperr.IsBusiness(err, "instrument_not_found") {
			t.Fatalf("expected instrument_not_found, got %v", err)
		}
	})
}

func TestListInstruments(t *testing.T) {
	ctx := context.Background()

	t.Run("cache serves unfiltered list until a mutation", func(t *testing.T) {
		f := newFixture(t)
		f.list = NewListInstruments(f.repo, f.cache, time.Minute)

		f.mustCreate(t, "Piano", "KEYBOARD")

		for range 3 {
			items, err := f.list.Execute(ctx, domainInst.ListFilter{})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(items) != 1 {
				t.Fatalf("len = %d, want 1", len(items))
			}
		}
		if f.repo.lists != 1 {
			t.Fatalf("repository hit %d times, want 1", f.repo.lists)
		}

		f.mustCreate(t, "Harp", "STRING")
		items, err := f.list.Execute(ctx, domainInst.ListFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 2 || f.repo.lists != 2 {
			t.Fatalf("len = %d, lists = %d; want 2, 2", len(items), f.repo.lists)
		}
	})

	t.Run("filters bypass cache", func(t *testing.T) {
		f := newFixture(t)
		f.mustCreate(t, "Snare", "PERCUSSION")
		f.mustCreate(t, "Sax", "WIND")

		items, err := f.list.Execute(ctx, domainInst.ListFilter{Type: "WIND"})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 1 || items[0].Name != "Sax" {
			t.Fatalf("unexpected items %+v", items)
		}
	})

	t.Run("invalid filter", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.list.Execute(ctx, domainInst.ListFilter{Status: "LOST"})
		if !httperr.IsBusiness(err, "invalid_status") {
			t.Fatalf("expected invalid_status, got %v", err)
		}
	})

	t.Run("get", func(t *testing.T) {
		f := newFixture(t)
		inst := f.mustCreate(t, "Ukulele", "STRING")
		got, err := f.list.Get(ctx, inst.ID)
		if err != nil || got.Name != "Ukulele" {
			t.Fatalf("get = %+v, %v", got, err)
		}
		if _, err := f.list.Get(ctx, 999); !httperr.IsBusiness(err, "instrument_not_found") {
			t.Fatalf("expected instrument_not_found, got %v", err)
		}
	})
}
