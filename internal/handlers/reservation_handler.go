package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/dto"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/reservation"
)

type ReservationHandler struct {
	list *reservation.ListReservations
	ret  *reservation.ReturnReservation
	del  *reservation.DeleteReservation
}

func NewReservationHandler(
	list *reservation.ListReservations,
	ret *reservation.ReturnReservation,
	del *reservation.DeleteReservation,
) *ReservationHandler {
	return &ReservationHandler{list: list, ret: ret, del: del}
}

func (h *ReservationHandler) Mine(c *gin.Context) {
	items, err := h.list.Mine(c.Request.Context(), middleware.ActorFrom(c), c.Query("status"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.NewReservationDTOs(items))
}

func (h *ReservationHandler) All(c *gin.Context) {
	items, err := h.list.All(c.Request.Context(), middleware.ActorFrom(c), c.Query("status"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, dto.NewReservationDTOs(items))
}

func (h *ReservationHandler) Return(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.ret.Execute(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, dto.NewReservationDTO(res))
}

func (h *ReservationHandler) Delete(c *gin.Context) {
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
