package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/studio-scheduler/internal/httperr"
	"github.com/BruksfildServices01/studio-scheduler/internal/infra/imagestore"
)

// --------------------------------------------------
// Path / query
// --------------------------------------------------

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "The '"+param+"' path parameter must be a positive integer.")
		return 0, false
	}
	return uint(id), true
}

// parseDateQuery: ausente devolve nil; inválido já responde 400.
func parseDateQuery(c *gin.Context, key string) (*calendar.Date, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "The '"+key+"' query parameter must be a YYYY-MM-DD date.")
		return nil, false
	}
	return &d, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.Write(c, http.StatusBadRequest, "invalid_request", "Malformed request body: "+err.Error())
		return false
	}
	return true
}

// --------------------------------------------------
// Multipart
// --------------------------------------------------

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// readImage lê o campo "image" do formulário, se enviado.
func readImage(c *gin.Context) ([]byte, bool) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, true
	}
	if fh.Size > imagestore.MaxUploadBytes {
		httperr.BadRequest(c, "image_too_large", "Images must be at most 5 MB.")
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not read the uploaded image.")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, imagestore.MaxUploadBytes+1))
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not read the uploaded image.")
		return nil, false
	}
	return data, true
}

func formValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}
