package quote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/skillsenselab/versestream/errors"
	"github.com/skillsenselab/versestream/logger"
	"github.com/skillsenselab/versestream/server"
)

var registerValidationsOnce sync.Once

// registerValidations installs the notblank rule on gin's validator engine.
// Session identifiers must carry at least one visible character; transcript
// text is left alone so whitespace-only fragments still flow through the
// short-input path.
func registerValidations() {
	registerValidationsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
				return strings.TrimSpace(fl.Field().String()) != ""
			})
		}
	})
}

// Handler exposes the quote pipeline over HTTP.
type Handler struct {
	svc *Service
	log *logger.Logger
}

// NewHandler creates the HTTP handler for the stream endpoint.
func NewHandler(svc *Service, log *logger.Logger) *Handler {
	registerValidations()
	return &Handler{svc: svc, log: log.WithComponent("quote-handler")}
}

// Register mounts the handler's routes.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/api/stream", h.Stream)
}

// Stream handles POST /api/stream. Events are written as back-to-back
// JSON objects on a chunked response; the connection stays open until
// the pipeline finishes or the client goes away.
func (h *Handler) Stream(c *gin.Context) {
	var req StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput(
			"body", "text, sessionId and version are required").WithCause(err))
		return
	}

	c.Header("Content-Type", "application/json")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)

	emit := func(ev Event) error {
		b, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if _, err := c.Writer.Write(b); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		c.Writer.Flush()
		return nil
	}

	if err := h.svc.Stream(c.Request.Context(), req, emit); err != nil {
		// Client disconnects are routine; log at debug and move on.
		h.log.Debug("Stream ended early", logger.Fields(
			"error", err.Error(),
			"session_id", req.SessionID,
		))
	}
}
