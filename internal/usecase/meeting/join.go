package meeting

import (
	"context"
	"time"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type JoinMeeting struct {
	repo     domainMeeting.Repository
	locks    lock.Manager
	audit    *audit.Dispatcher
	capacity int
	now      func() time.Time
}

func NewJoinMeeting(
	repo domainMeeting.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
	capacity int,
) *JoinMeeting {
	if capacity <= 0 {
		capacity = domainMeeting.DefaultCapacity
	}
	return &JoinMeeting{
		repo:     repo,
		locks:    locks,
		audit:    audit,
		capacity: capacity,
		now:      time.Now,
	}
}

func (uc *JoinMeeting) Execute(
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

		ms, err := domainMeeting.AddParticipant(m, actor.UserID, uc.capacity, uc.now())
		if err != nil {
			return err
		}

		if err := uc.repo.AddMembership(ctx, ms); err != nil {
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
		Action:   "meeting_joined",
		Entity:   "meeting",
		EntityID: &updated.ID,
		Metadata: map[string]any{"users_count": updated.UsersCount()},
	})

	return updated, nil
}
