package meeting

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// QuitMeeting remove o ator da reunião. Uma reunião vazia continua ACTIVE;
// limpeza é ação explícita do admin.
type QuitMeeting struct {
	repo  domainMeeting.Repository
	locks lock.Manager
	audit *audit.Dispatcher
}

func NewQuitMeeting(
	repo domainMeeting.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
) *QuitMeeting {
	return &QuitMeeting{
		repo:  repo,
		locks: locks,
		audit: audit,
	}
}

func (uc *QuitMeeting) Execute(
	ctx context.Context,
	actor authz.Actor,
	meetingID uint,
) (*models.Meeting, error) {

	if err := authz.RequireMember(actor); err != nil {
		return nil, err
	}

	var updated *models.Meeting

	err := uc.locks.WithLock(ctx, []lock.Key{lock.MeetingKey(meetingID)}, func(ctx context.Context) error {
		m, err := uc.repo.GetMeeting(ctx, meetingID)
		if err != nil {
			return meetingNotFound(meetingID, err)
		}

		if err := domainMeeting.RemoveParticipant(m, actor.UserID); err != nil {
			return err
		}

		if err := uc.repo.RemoveMembership(ctx, meetingID, actor.UserID); err != nil {
			return err
		}

		updated, err = uc.repo.GetMeeting(ctx, meetingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(ctx, audit.Event{
		UserID:   &actor.UserID,
		Action:   "meeting_quit",
		Entity:   "meeting",
		EntityID: &updated.ID,
		Metadata: map[string]any{"users_count": updated.UsersCount()},
	})

	return updated, nil
}
