package meeting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	domainRes "github.com/BruksfildServices01/studio-scheduler/internal/domain/reservation"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateMeetingInput struct {
	Actor         authz.Actor
	ReservationID uint
	Room          string
	Day           calendar.Date
	StartTime     calendar.TimeOfDay
	EndTime       calendar.TimeOfDay
}

// ======================================================
// USE CASE
// ======================================================

type CreateMeeting struct {
	repo  domainMeeting.Repository
	locks lock.Manager
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateMeeting(
	repo domainMeeting.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
) *CreateMeeting {
	return &CreateMeeting{
		repo:  repo,
		locks: locks,
		audit: audit,
		now:   time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateMeeting) Execute(
	ctx context.Context,
	in CreateMeetingInput,
) (*models.Meeting, error) {

	if err := authz.RequireMember(in.Actor); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 1️⃣ Entrada
	// --------------------------------------------------
	room, err := domainMeeting.ParseRoom(in.Room)
	if err != nil {
		return nil, err
	}

	if in.Day.IsZero() {
		return nil, httperr.ErrValidationFields(
			"The meeting day is required.",
			map[string][]string{"day": {"is required"}},
		)
	}

	if !calendar.IsValidTimeRange(in.StartTime, in.EndTime) {
		return nil, httperr.ErrValidationFields(
			"The end time must be after the start time.",
			map[string][]string{"end_time": {"must be after start_time"}},
		)
	}

	// --------------------------------------------------
	// 2️⃣ Reserva que habilita a reunião
	// --------------------------------------------------
	anchor, err := uc.repo.GetReservation(ctx, in.ReservationID)
	if err != nil {
		return nil, anchorNotFound(in.ReservationID, err)
	}

	keys := []lock.Key{
		lock.RoomDayKey(string(room), in.Day),
		lock.InstrumentKey(anchor.InstrumentID),
	}

	var created *models.Meeting

	err = uc.locks.WithLock(ctx, keys, func(ctx context.Context) error {
		anchor, err := uc.repo.GetReservation(ctx, in.ReservationID)
		if err != nil {
			return anchorNotFound(in.ReservationID, err)
		}
		if err := checkAnchor(in.Actor, anchor); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Conflito de sala
		// --------------------------------------------------
		existing, err := uc.repo.ListActiveMeetingsForRoomDay(ctx, string(room), in.Day)
		if err != nil {
			return err
		}
		if other := domainMeeting.FindOverlap(existing, 0, in.StartTime, in.EndTime); other != nil {
			return domainMeeting.ConflictError(string(room), in.Day, other)
		}

		// --------------------------------------------------
		// 4️⃣ Criação (criador entra como participante)
		// --------------------------------------------------
		m := &models.Meeting{
			ReservationID: &anchor.ID,
			Room:          string(room),
			Day:           in.Day,
			StartTime:     in.StartTime,
			EndTime:       in.EndTime,
			Status:        string(domainMeeting.InitialStatus()),
			CreatedBy:     in.Actor.UserID,
			Memberships: []models.MeetingMembership{
				{UserID: in.Actor.UserID, JoinedAt: uc.now()},
			},
		}
		if err := uc.repo.CreateMeeting(ctx, m); err != nil {
			return err
		}

		created, err = uc.repo.GetMeeting(ctx, m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &in.Actor.UserID,
		Action:   "meeting_created",
		Entity:   "meeting",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"room":       created.Room,
			"day":        created.Day.String(),
			"start_time": created.StartTime.Short(),
			"end_time":   created.EndTime.Short(),
		},
	})

	return created, nil
}

func checkAnchor(actor authz.Actor, r *models.Reservation) error {
	if r.UserID != actor.UserID {
		return httperr.ErrForbidden(
			"reservation_not_yours",
			fmt.Sprintf("Reservation %d belongs to another member; use one of your own reservations.", r.ID),
		)
	}
	if domainRes.Status(r.Status) != domainRes.StatusActive {
		return httperr.ErrForbidden(
			"reservation_not_active",
			fmt.Sprintf("Reservation %d is %s; only ACTIVE reservations allow booking a room.", r.ID, r.Status),
		)
	}
	return nil
}

func anchorNotFound(id uint, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(
			"reservation_not_found",
			fmt.Sprintf("Reservation %d does not exist.", id),
		)
	}
	return err
}

func meetingNotFound(id uint, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(
			"meeting_not_found",
			fmt.Sprintf("Meeting %d does not exist.", id),
		)
	}
	return err
}
