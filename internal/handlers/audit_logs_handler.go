package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/audit"
	"github.com/BruksfildServices01/studio-scheduler/internal/domain/authz"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/studio-scheduler/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store audit.Store
	loc   *time.Location
}

func NewAuditLogsHandler(store audit.Store, loc *time.Location) *AuditLogsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AuditLogsHandler{store: store, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	if err := authz.RequireAdmin(middleware.ActorFrom(c), "view audit logs"); err != nil {
		httperr.FromError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}

	// --------------------------------------------------
	// Datas no fuso do estúdio; "to" inclui o dia inteiro
	// --------------------------------------------------

	from, ok := parseDateQuery(c, "from")
	if !ok {
		return
	}
	if from != nil {
		t := from.Start(h.loc)
		filter.From = &t
	}

	to, ok := parseDateQuery(c, "to")
	if !ok {
		return
	}
	if to != nil {
		t := to.AddDays(1).Start(h.loc)
		filter.To = &t
	}

	filter = filter.Normalize()

	logs, total, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Page(c, filter.Page, filter.Limit, total, logs)
}
