package meeting

import (
	"context"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type ListMeetings struct {
	repo     domainMeeting.Repository
	capacity int
}

func NewListMeetings(repo domainMeeting.Repository, capacity int) *ListMeetings {
	if capacity <= 0 {
		capacity = domainMeeting.DefaultCapacity
	}
	return &ListMeetings{repo: repo, capacity: capacity}
}

func (uc *ListMeetings) Capacity() int {
	return uc.capacity
}

// Mine lista as reuniões em que o ator é participante.
func (uc *ListMeetings) Mine(
	ctx context.Context,
	actor authz.Actor,
) ([]models.Meeting, error) {

	if err := authz.RequireMember(actor); err != nil {
		return nil, err
	}

	return uc.repo.ListMeetings(ctx, domainMeeting.ListFilter{
		ParticipantID: &actor.UserID,
	})
}

// All é a agenda compartilhada das salas, aberta a qualquer membro.
func (uc *ListMeetings) All(
	ctx context.Context,
	actor authz.Actor,
	status string,
	day *calendar.Date,
) ([]models.Meeting, error) {

	if err := authz.RequireMember(actor); err != nil {
		return nil, err
	}

	if status != "" {
		if _, err := domainMeeting.ParseStatus(status); err != nil {
			return nil, err
		}
	}

	return uc.repo.ListMeetings(ctx, domainMeeting.ListFilter{
		Status: status,
		Day:    day,
	})
}

// Available: ACTIVE, com vaga e sem o ator.
func (uc *ListMeetings) Available(
	ctx context.Context,
	actor authz.Actor,
) ([]models.Meeting, error) {

	if err := authz.RequireMember(actor); err != nil {
		return nil, err
	}

	active, err := uc.repo.ListMeetings(ctx, domainMeeting.ListFilter{
		Status: string(domainMeeting.StatusActive),
	})
	if err != nil {
		return nil, err
	}

	out := make([]models.Meeting, 0, len(active))
	for i := range active {
		if domainMeeting.IsJoinable(&active[i], actor.UserID, uc.capacity) {
			out = append(out, active[i])
		}
	}
	return out, nil
}
