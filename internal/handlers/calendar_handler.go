package handlers

import (
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
	"github.com/BruksfildServices01/studio-scheduler/internal/usecase/feed"
)

type CalendarHandler struct {
	feed *feed.BuildFeed
}

func NewCalendarHandler(feed *feed.BuildFeed) *CalendarHandler {
	return &CalendarHandler{feed: feed}
}

// Feed devolve reservas e reuniões do usuário em ordem cronológica.
func (h *CalendarHandler) Feed(c *gin.Context) {
	f, err := h.feed.Execute(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	events := slices.Collect(f.All())
	if events == nil {
		events = []feed.Event{}
	}
	httpresp.List(c, events)
}
