package meeting

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/lock"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

// UpdateMeetingStatus move livremente entre ACTIVE, FINISHED e CANCELLED.
// Voltar para ACTIVE refaz a checagem de conflito da sala.
type UpdateMeetingStatus struct {
	repo  domainMeeting.Repository
	locks lock.Manager
	audit *audit.Dispatcher
}

func NewUpdateMeetingStatus(
	repo domainMeeting.Repository,
	locks lock.Manager,
	audit *audit.Dispatcher,
) *UpdateMeetingStatus {
	return &UpdateMeetingStatus{
		repo:  repo,
		locks: locks,
		audit: audit,
	}
}

func (uc *UpdateMeetingStatus) Execute(
	ctx context.Context,
	actor authz.Actor,
	meetingID uint,
	newStatus string,
) (*models.Meeting, error) {

	if !authz.CanMutateMeetingStatus(actor) {
		return nil, httperr.ErrForbidden("admin_only", "Only admins can change a meeting status.")
	}

	status, err := domainMeeting.ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	current, err := uc.repo.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, meetingNotFound(meetingID, err)
	}

	keys := []lock.Key{lock.MeetingKey(meetingID)}
	if status == domainMeeting.StatusActive {
		keys = append(keys, lock.RoomDayKey(current.Room, current.Day))
	}

	var (
		updated  *models.Meeting
		previous string
	)

	err = uc.locks.WithLock(ctx, keys, func(ctx context.Context) error {
		m, err := uc.repo.GetMeeting(ctx, meetingID)
		if err != nil {
			return meetingNotFound(meetingID, err)
		}
		previous = m.Status

		if m.Status == string(status) {
			updated = m
			return nil
		}

		if status == domainMeeting.StatusActive {
			existing, err := uc.repo.ListActiveMeetingsForRoomDay(ctx, m.Room, m.Day)
			if err != nil {
				return err
			}
			if other := domainMeeting.FindOverlap(existing, m.ID, m.StartTime, m.EndTime); other != nil {
				return domainMeeting.ConflictError(m.Room, m.Day, other)
			}
		}

		if err := uc.repo.UpdateMeetingStatus(ctx, m.ID, string(status)); err != nil {
			return meetingNotFound(meetingID, err)
		}

		updated, err = uc.repo.GetMeeting(ctx, meetingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if previous != updated.Status {
		uc.audit.Dispatch(ctx, audit.Event{
			UserID:   &actor.UserID,
			Action:   "meeting_status_changed",
			Entity:   "meeting",
			EntityID: &updated.ID,
			Metadata: map[string]any{"from": previous, "to": updated.Status},
		})
	}

	return updated, nil
}
