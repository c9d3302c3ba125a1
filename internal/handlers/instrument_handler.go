package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	domainInst "github.com/BruksfildServices01/studio-scheduler/internal/domain/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/dto"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/instrument"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/reservation"
)

// ======================================================
// HANDLER
// ======================================================

type InstrumentHandler struct {
	list    *instrument.ListInstruments
	create  *instrument.CreateInstrument
	update  *instrument.UpdateInstrument
	del     *instrument.DeleteInstrument
	reserve *reservation.Reserve
}

func NewInstrumentHandler(
	list *instrument.ListInstruments,
	create *instrument.CreateInstrument,
	update *instrument.UpdateInstrument,
	del *instrument.DeleteInstrument,
	reserve *reservation.Reserve,
) *InstrumentHandler {
	return &InstrumentHandler{
		list:    list,
		create:  create,
		update:  update,
		del:     del,
		reserve: reserve,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type InstrumentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Status      *string `json:"status"`
	RemoveImage bool    `json:"remove_image"`
}

type ReserveRequest struct {
	StartDate calendar.Date `json:"start_date"`
	EndDate   calendar.Date `json:"end_date"`
}

// bindInstrument aceita JSON ou multipart (campo "image").
func bindInstrument(c *gin.Context) (InstrumentRequest, []byte, bool) {
	var req InstrumentRequest

	if !isMultipart(c) {
		return req, nil, bindJSON(c, &req)
	}

	req.Name = formValue(c, "name")
	req.Description = formValue(c, "description")
	req.Type = formValue(c, "type")
	req.Status = formValue(c, "status")
	req.RemoveImage = c.PostForm("remove_image") == "true"

	image, ok := readImage(c)
	return req, image, ok
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ======================================================
// CATALOG
// ======================================================

func (h *InstrumentHandler) List(c *gin.Context) {
	items, err := h.list.Execute(c.Request.Context(), domainInst.ListFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, items)
}

func (h *InstrumentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	inst, err := h.list.Get(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, inst)
}

func (h *InstrumentHandler) Create(c *gin.Context) {
	req, image, ok := bindInstrument(c)
	if !ok {
		return
	}

	inst, err := h.create.Execute(c.Request.Context(), instrument.CreateInstrumentInput{
		Actor:       middleware.ActorFrom(c),
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Type:        deref(req.Type),
		Status:      deref(req.Status),
		Image:       image,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, inst)
}

func (h *InstrumentHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	req, image, ok := bindInstrument(c)
	if !ok {
		return
	}

	inst, err := h.update.Execute(c.Request.Context(), instrument.UpdateInstrumentInput{
		Actor:       middleware.ActorFrom(c),
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		Image:       image,
		RemoveImage: req.RemoveImage,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, inst)
}

func (h *InstrumentHandler) Delete(c *gin.Context) {
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

// ======================================================
// RESERVE
// ======================================================

func (h *InstrumentHandler) Reserve(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req ReserveRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.reserve.Execute(c.Request.Context(), reservation.ReserveInput{
		Actor:        middleware.ActorFrom(c),
		InstrumentID: id,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, dto.NewReservationDTO(res))
}
