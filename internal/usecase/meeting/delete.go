package meeting

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
)

// DeleteMeeting apaga a reunião e todas as memberships, em qualquer status.
type DeleteMeeting struct {
	repo  domainMeeting.Repository
	locks lock.Manager
	audit *audit.Dispatcher
}

func NewDeleteMeeting(
	repo domainMeeting.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
) *DeleteMeeting {
	return &DeleteMeeting{
		repo:  repo,
		locks: locks,
		audit: audit,
	}
}

func (uc *DeleteMeeting) Execute(
	ctx context.Context,
	actor authz.Actor,
	meetingID uint,
) error {

	if !authz.CanDeleteMeeting(actor) {
		return httperr.ErrForbidden("admin_only", "Only admins can delete meetings.")
	}

	var participants []uint

	err := uc.locks.WithLock(ctx, []lock.Key{lock.MeetingKey(meetingID)}, func(ctx context.Context) error {
		m, err := uc.repo.GetMeeting(ctx, meetingID)
		if err != nil {
			return meetingNotFound(meetingID, err)
		}

		for _, ms := range m.Memberships {
			participants = append(participants, ms.UserID)
		}

		return uc.repo.DeleteMeeting(ctx, meetingID)
	})
	if err != nil {
		return err
	}

	// registra quem estava na reunião: a exclusão é destrutiva
	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Action:   "meeting_deleted",
		Entity:   "meeting",
		EntityID: &meetingID,
		Metadata: map[string]any{"participants": participants},
	})

	return nil
}
