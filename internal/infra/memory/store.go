package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// Store guarda todas as entidades em memória. Leituras devolvem cópias,
// então quem chama nunca altera o estado compartilhado sem passar pelo Store.
type Store struct {
	mu sync.RWMutex

	users       map[uint]models.User
	instruments map[uint]models.Instrument
	// reservations e meetings guardam só as colunas; associações são montadas na leitura
	reservations map[uint]models.Reservation
	meetings     map[uint]models.Meeting
	memberships  map[uint]map[uint]models.MeetingMembership
	auditLogs    []models.AuditLog

	seq uint
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uint]models.User),
		instruments:  make(map[uint]models.Instrument),
		reservations: make(map[uint]models.Reservation),
		meetings:     make(map[uint]models.Meeting),
		memberships:  make(map[uint]map[uint]models.MeetingMembership),
	}
}

func (s *Store) nextID() uint {
	s.seq++
	return s.seq
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return httperr.ErrConflict(
				"email_taken",
				fmt.Sprintf("An account with e-mail %s already exists.", u.Email),
				nil,
			)
		}
	}

	now := time.Now()
	u.ID = s.nextID()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --------------------------------------------------
// Instruments
// --------------------------------------------------

func (s *Store) CreateInstrument(ctx context.Context, in *models.Instrument) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	in.ID = s.nextID()
	in.CreatedAt, in.UpdatedAt = now, now
	s.instruments[in.ID] = cloneInstrument(*in)
	return nil
}

func (s *Store) GetInstrument(ctx context.Context, id uint) (*models.Instrument, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.instruments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneInstrument(in)
	return &out, nil
}

func (s *Store) UpdateInstrument(ctx context.Context, in *models.Instrument) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instruments[in.ID]; !ok {
		return domain.ErrNotFound
	}
	in.UpdatedAt = time.Now()
	s.instruments[in.ID] = cloneInstrument(*in)
	return nil
}

// DeleteInstrument apaga em cascata as reservas do instrumento.
func (s *Store) DeleteInstrument(ctx context.Context, id uint) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instruments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.instruments, id)

	for rid, r := range s.reservations {
		if r.InstrumentID == id {
			s.deleteReservationLocked(rid)
		}
	}
	return nil
}

func (s *Store) ListInstruments(
	ctx context.Context,
	filter instrument.ListFilter,
) ([]models.Instrument, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Instrument, 0, len(s.instruments))
	for _, in := range s.instruments {
		if filter.Type != "" && in.Type != filter.Type {
			continue
		}
		if filter.Status != "" && in.Status != filter.Status {
			continue
		}
		out = append(out, cloneInstrument(in))
	}

	slices.SortFunc(out, func(a, b models.Instrument) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *Store) CountActiveReservations(ctx context.Context, instrumentID uint) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.reservations {
		if r.InstrumentID == instrumentID && r.Status == string(reservation.StatusActive) {
			n++
		}
	}
	return n, nil
}

// --------------------------------------------------
// Reservations
// --------------------------------------------------

func (s *Store) ListActiveReservationsForInstrument(
	ctx context.Context,
	instrumentID uint,
) ([]models.Reservation, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Reservation
	for _, r := range s.reservations {
		if r.InstrumentID == instrumentID && r.Status == string(reservation.StatusActive) {
			out = append(out, cloneReservation(r))
		}
	}
	sortReservations(out)
	return out, nil
}

func (s *Store) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instruments[r.InstrumentID]; !ok {
		return domain.ErrNotFound
	}

	now := time.Now()
	r.ID = s.nextID()
	r.CreatedAt, r.UpdatedAt = now, now

	stored := cloneReservation(*r)
	stored.User, stored.Instrument = nil, nil
	s.reservations[r.ID] = stored
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reservations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := s.hydrateReservation(r)
	return &out, nil
}

func (s *Store) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[r.ID]; !ok {
		return domain.ErrNotFound
	}
	r.UpdatedAt = time.Now()

	stored := cloneReservation(*r)
	stored.User, stored.Instrument = nil, nil
	s.reservations[r.ID] = stored
	return nil
}

func (s *Store) DeleteReservation(ctx context.Context, id uint) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reservations[id]; !ok {
		return domain.ErrNotFound
	}
	s.deleteReservationLocked(id)
	return nil
}

// deleteReservationLocked solta as reuniões ancoradas (ON DELETE SET NULL).
func (s *Store) deleteReservationLocked(id uint) {
	delete(s.reservations, id)
	for mid, m := range s.meetings {
		if m.ReservationID != nil && *m.ReservationID == id {
			m.ReservationID = nil
			s.meetings[mid] = m
		}
	}
}

func (s *Store) ListReservations(
	ctx context.Context,
	filter reservation.ListFilter,
) ([]models.Reservation, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reservation, 0)
	for _, r := range s.reservations {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, s.hydrateReservation(r))
	}
	sortReservations(out)
	return out, nil
}

// --------------------------------------------------
// Meetings
// --------------------------------------------------

func (s *Store) ListActiveMeetingsForRoomDay(
	ctx context.Context,
	room string,
	day calendar.Date,
) ([]models.Meeting, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Meeting
	for _, m := range s.meetings {
		if m.Room == room && m.Day.Equal(day) && m.Status == string(meeting.StatusActive) {
			out = append(out, s.hydrateMeeting(m))
		}
	}
	sortMeetings(out)
	return out, nil
}

func (s *Store) CreateMeeting(ctx context.Context, m *models.Meeting) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	m.ID = s.nextID()
	m.CreatedAt, m.UpdatedAt = now, now

	members := make(map[uint]models.MeetingMembership, len(m.Memberships))
	for i := range m.Memberships {
		m.Memberships[i].MeetingID = m.ID
		ms := m.Memberships[i]
		ms.User = nil
		members[ms.UserID] = ms
	}

	stored := *m
	stored.Memberships, stored.Reservation = nil, nil
	s.meetings[m.ID] = stored
	s.memberships[m.ID] = members
	return nil
}

func (s *Store) GetMeeting(ctx context.Context, id uint) (*models.Meeting, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := s.hydrateMeeting(m)
	return &out, nil
}

func (s *Store) UpdateMeetingStatus(ctx context.Context, id uint, status string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Status = status
	m.UpdatedAt = time.Now()
	s.meetings[id] = m
	return nil
}

func (s *Store) DeleteMeeting(ctx context.Context, id uint) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.meetings, id)
	delete(s.memberships, id)
	return nil
}

func (s *Store) AddMembership(ctx context.Context, ms *models.MeetingMembership) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.memberships[ms.MeetingID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, dup := members[ms.UserID]; dup {
		return httperr.ErrConflict(
			"already_participant",
			fmt.Sprintf("User %d already joined meeting %d.", ms.UserID, ms.MeetingID),
			nil,
		)
	}
	stored := *ms
	stored.User = nil
	members[ms.UserID] = stored
	return nil
}

func (s *Store) RemoveMembership(ctx context.Context, meetingID, userID uint) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	members, ok := s.memberships[meetingID]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := members[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(members, userID)
	return nil
}

func (s *Store) ListMeetings(
	ctx context.Context,
	filter meeting.ListFilter,
) ([]models.Meeting, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Meeting, 0)
	for id, m := range s.meetings {
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		if filter.Day != nil && !m.Day.Equal(*filter.Day) {
			continue
		}
		if filter.ParticipantID != nil {
			if _, ok := s.memberships[id][*filter.ParticipantID]; !ok {
				continue
			}
		}
		out = append(out, s.hydrateMeeting(m))
	}
	sortMeetings(out)
	return out, nil
}

// MembershipCount conta as memberships de uma reunião, inclusive órfãs.
func (s *Store) MembershipCount(meetingID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.memberships[meetingID])
}

// --------------------------------------------------
// Audit
// --------------------------------------------------

func (s *Store) Log(ctx context.Context, ev audit.Event) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	log := ev.ToModel(time.Now())
	log.ID = s.nextID()
	s.auditLogs = append(s.auditLogs, log)
	return nil
}

func (s *Store) List(ctx context.Context, filter audit.Filter) ([]models.AuditLog, int64, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	filter = filter.Normalize()

	var matched []models.AuditLog
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		l := s.auditLogs[i]
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.Entity != "" && l.Entity != filter.Entity {
			continue
		}
		if filter.From != nil && l.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !l.CreatedAt.Before(*filter.To) {
			continue
		}
		matched = append(matched, l)
	}

	total := int64(len(matched))
	start := min(filter.Offset(), len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func (s *Store) hydrateReservation(r models.Reservation) models.Reservation {
	out := cloneReservation(r)
	if in, ok := s.instruments[r.InstrumentID]; ok {
		c := cloneInstrument(in)
		out.Instrument = &c
	}
	if u, ok := s.users[r.UserID]; ok {
		out.User = &u
	}
	return out
}

func (s *Store) hydrateMeeting(m models.Meeting) models.Meeting {
	out := m
	if m.ReservationID != nil {
		id := *m.ReservationID
		out.ReservationID = &id
		if r, ok := s.reservations[id]; ok {
			hr := s.hydrateReservation(r)
			out.Reservation = &hr
		}
	}

	members := s.memberships[m.ID]
	out.Memberships = make([]models.MeetingMembership, 0, len(members))
	for _, ms := range members {
		if u, ok := s.users[ms.UserID]; ok {
			ms.User = &u
		}
		out.Memberships = append(out.Memberships, ms)
	}
	slices.SortFunc(out.Memberships, func(a, b models.MeetingMembership) int {
		return cmp.Or(a.JoinedAt.Compare(b.JoinedAt), cmp.Compare(a.UserID, b.UserID))
	})
	return out
}

func cloneInstrument(in models.Instrument) models.Instrument {
	if in.ImageURL != nil {
		url := *in.ImageURL
		in.ImageURL = &url
	}
	return in
}

func cloneReservation(r models.Reservation) models.Reservation {
	if r.ReturnedAt != nil {
		at := *r.ReturnedAt
		r.ReturnedAt = &at
	}
	if r.ReturnedBy != nil {
		by := *r.ReturnedBy
		r.ReturnedBy = &by
	}
	return r
}

func sortReservations(rs []models.Reservation) {
	slices.SortFunc(rs, func(a, b models.Reservation) int {
		return cmp.Or(a.StartDate.Compare(b.StartDate), cmp.Compare(a.ID, b.ID))
	})
}

func sortMeetings(ms []models.Meeting) {
	slices.SortFunc(ms, func(a, b models.Meeting) int {
		return cmp.Or(
			a.Day.Compare(b.Day),
			cmp.Compare(a.StartTime, b.StartTime),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// Compile-time checks
var (
	_ account.Repository     = (*Store)(nil)
	_ instrument.Repository  = (*Store)(nil)
	_ reservation.Repository = (*Store)(nil)
	_ meeting.Repository     = (*Store)(nil)
	_ audit.Store            = (*Store)(nil)
)
