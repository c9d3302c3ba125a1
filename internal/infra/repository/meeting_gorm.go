package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
)

type MeetingGormRepository struct {
	db *gorm.DB
}

func NewMeetingGormRepository(db *gorm.DB) *MeetingGormRepository {
	return &MeetingGormRepository{db: db}
}

// withMeetingDetails carrega participantes e reserva âncora.
func withMeetingDetails(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Memberships", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at ASC").Order("user_id ASC")
		}).
		Preload("Memberships.User").
		Preload("Reservation").
		Preload("Reservation.Instrument")
}

// --------------------------------------------------
// Reservation (anchor)
// --------------------------------------------------

func (r *MeetingGormRepository) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	return getReservation(ctx, r.db, id)
}

// --------------------------------------------------
// Meeting (create / conflict)
// --------------------------------------------------

func (r *MeetingGormRepository) ListActiveMeetingsForRoomDay(
	ctx context.Context,
	room string,
	day calendar.Date,
) ([]models.Meeting, error) {

	var out []models.Meeting
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room = ? AND day = ? AND status = ?", room, day, string(meeting.StatusActive)).
		Order("start_time ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MeetingGormRepository) CreateMeeting(ctx context.Context, m *models.Meeting) error {
	err := conn(ctx, r.db).
		Omit("Reservation").
		Create(m).Error
	switch {
	case err == nil:
		return nil
	case httperr.IsExclusionConflict(err):
		return httperr.ErrConflict(
			"room_already_booked",
			"The room is already booked for part of this time range.",
			map[string]any{"room": m.Room, "day": m.Day.String()},
		)
	default:
		return err
	}
}

// --------------------------------------------------
// Meeting (state change)
// --------------------------------------------------

func (r *MeetingGormRepository) GetMeeting(ctx context.Context, id uint) (*models.Meeting, error) {
	var m models.Meeting
	if err := withMeetingDetails(conn(ctx, r.db)).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *MeetingGormRepository) UpdateMeetingStatus(ctx context.Context, id uint, status string) error {
	q := conn(ctx, r.db).
		Model(&models.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	switch {
	case q.Error != nil && httperr.IsExclusionConflict(q.Error):
		return httperr.ErrConflict(
			"room_already_booked",
			"Another ACTIVE meeting already holds this room and time.",
			map[string]any{"meeting_id": id},
		)
	case q.Error != nil:
		return q.Error
	case q.RowsAffected == 0:
		return domain.ErrNotFound
	}
	return nil
}

// DeleteMeeting: memberships caem pela FK ON DELETE CASCADE.
func (r *MeetingGormRepository) DeleteMeeting(ctx context.Context, id uint) error {
	q := conn(ctx, r.db).Delete(&models.Meeting{}, id)
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Memberships
// --------------------------------------------------

func (r *MeetingGormRepository) AddMembership(ctx context.Context, ms *models.MeetingMembership) error {
	err := conn(ctx, r.db).Omit(clause.Associations).Create(ms).Error
	switch {
	case err == nil:
		return nil
	case httperr.IsUniqueViolation(err):
		return httperr.ErrConflict(
			"already_participant",
			"The user already joined this meeting.",
			nil,
		)
	case httperr.IsForeignKeyViolation(err):
		return domain.ErrNotFound
	default:
		return err
	}
}

func (r *MeetingGormRepository) RemoveMembership(ctx context.Context, meetingID, userID uint) error {
	q := conn(ctx, r.db).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Delete(&models.MeetingMembership{})
	if q.Error != nil {
		return q.Error
	}
	if q.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *MeetingGormRepository) ListMeetings(
	ctx context.Context,
	filter meeting.ListFilter,
) ([]models.Meeting, error) {

	db := conn(ctx, r.db)
	q := withMeetingDetails(db)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Day != nil {
		q = q.Where("day = ?", *filter.Day)
	}
	if filter.ParticipantID != nil {
		q = q.Where(
			"id IN (?)",
			db.Model(&models.MeetingMembership{}).
				Select("meeting_id").
				Where("user_id = ?", *filter.ParticipantID),
		)
	}

	out := []models.Meeting{}
	if err := q.
		Order("day ASC").
		Order("start_time ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var _ meeting.Repository = (*MeetingGormRepository)(nil)
