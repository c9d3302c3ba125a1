package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	domainMeeting "github.com/BruksfildServices01/studio-scheduler/internal/domain/meeting"
	"github.com/BruksfildServices01/studio-scheduler/internal/dto"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/models"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/meeting"
)

// ======================================================
// HANDLER
// ======================================================

type MeetingHandler struct {
	list         *meeting.ListMeetings
	create       *meeting.CreateMeeting
	join         *meeting.JoinMeeting
	quit         *meeting.QuitMeeting
	updateStatus *meeting.UpdateMeetingStatus
	del          *meeting.DeleteMeeting
	availability *meeting.RoomAvailability
}

func NewMeetingHandler(
	list *meeting.ListMeetings,
	create *meeting.CreateMeeting,
	join *meeting.JoinMeeting,
	quit *meeting.QuitMeeting,
	updateStatus *meeting.UpdateMeetingStatus,
	del *meeting.DeleteMeeting,
	availability *meeting.RoomAvailability,
) *MeetingHandler {
	return &MeetingHandler{
		list:         list,
		create:       create,
		join:         join,
		quit:         quit,
		updateStatus: updateStatus,
		del:          del,
		availability: availability,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateMeetingRequest struct {
	ReservationID uint                `json:"reservation_id" binding:"required"`
	Room          string              `json:"room" binding:"required"`
	Day           *calendar.Date      `json:"day"`
	StartTime     *calendar.TimeOfDay `json:"start_time"`
	EndTime       *calendar.TimeOfDay `json:"end_time"`
}

// missingFields lista os campos obrigatórios ausentes do corpo.
func (r CreateMeetingRequest) missingFields() map[string][]string {
	fields := map[string][]string{}
	if r.Day == nil {
		fields["day"] = []string{"is required"}
	}
	if r.StartTime == nil {
		fields["start_time"] = []string{"is required"}
	}
	if r.EndTime == nil {
		fields["end_time"] = []string{"is required"}
	}
	return fields
}

type UpdateMeetingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *MeetingHandler) one(c *gin.Context, status int, m *models.Meeting) {
	c.JSON(status, dto.NewMeetingDTO(m, h.list.Capacity()))
}

func (h *MeetingHandler) many(c *gin.Context, items []models.Meeting) {
	httpresp.List(c, dto.NewMeetingDTOs(items, h.list.Capacity()))
}

// ======================================================
// QUERIES
// ======================================================

func (h *MeetingHandler) List(c *gin.Context) {
	day, ok := parseDateQuery(c, "day")
	if !ok {
		return
	}

	items, err := h.list.All(c.Request.Context(), middleware.ActorFrom(c), c.Query("status"), day)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	h.many(c, items)
}

func (h *MeetingHandler) Mine(c *gin.Context) {
	items, err := h.list.Mine(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	h.many(c, items)
}

func (h *MeetingHandler) Available(c *gin.Context) {
	items, err := h.list.Available(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	h.many(c, items)
}

// RoomAvailability: GET /rooms/:room/availability?day=YYYY-MM-DD&slot=60
func (h *MeetingHandler) RoomAvailability(c *gin.Context) {
	room, err := domainMeeting.ParseRoom(c.Param("room"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	day, ok := parseDateQuery(c, "day")
	if !ok {
		return
	}
	if day == nil {
		httperr.BadRequest(c, "missing_day", "The 'day' query parameter is required.")
		return
	}

	var slot time.Duration
	if raw := c.Query("slot"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_slot", "The 'slot' query parameter is a number of minutes.")
			return
		}
		slot = time.Duration(minutes) * time.Minute
	}

	slots, err := h.availability.Execute(c.Request.Context(), domainMeeting.AvailabilityInput{
		Room: room,
		Day:  *day,
		Slot: slot,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room":  room,
		"day":   day,
		"slots": slots,
	})
}

// ======================================================
// COMMANDS
// ======================================================

func (h *MeetingHandler) Create(c *gin.Context) {
	var req CreateMeetingRequest
	if !bindJSON(c, &req) {
		return
	}
	if missing := req.missingFields(); len(missing) > 0 {
		httperr.FromError(c, httperr.ErrValidationFields("Some meeting fields are missing.", missing))
		return
	}

	m, err := h.create.Execute(c.Request.Context(), meeting.CreateMeetingInput{
		Actor:         middleware.ActorFrom(c),
		ReservationID: req.ReservationID,
		Room:          req.Room,
		Day:           *req.Day,
		StartTime:     *req.StartTime,
		EndTime:       *req.EndTime,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	h.one(c, http.StatusCreated, m)
}

func (h *MeetingHandler) Join(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	m, err := h.join.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	h.one(c, http.StatusOK, m)
}

func (h *MeetingHandler) Quit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	m, err := h.quit.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	h.one(c, http.StatusOK, m)
}

func (h *MeetingHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateMeetingStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.updateStatus.Execute(c.Request.Context(), middleware.ActorFrom(c), id, req.Status)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	h.one(c, http.StatusOK, m)
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.del.Execute(c.Request.Context(), middleware.ActorFrom(c), id); err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.NoContent(c)
}
