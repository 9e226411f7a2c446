// Package http exposes the host-process operations to the hosted UI.
package http

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/kiosk-sh/kiosk/internal/dispatch"
	"github.com/kiosk-sh/kiosk/internal/logging"
	"github.com/kiosk-sh/kiosk/internal/window"
	"go.uber.org/zap"
)

// windowHeader identifies the window a message was dispatched from. The
// hosted UI sends its own label here on every call.
const windowHeader = "X-Kiosk-Window"

// Handlers contains all HTTP handlers.
type Handlers struct {
	dispatcher *dispatch.Dispatcher
	factory    *window.Factory
	registry   *window.Registry
	bridge     interface{ Connected() bool }
	logger     *logging.Logger
	version    string
}

// NewHandlers creates a new handler set.
func NewHandlers(
	dispatcher *dispatch.Dispatcher,
	factory *window.Factory,
	registry *window.Registry,
	bridge interface{ Connected() bool },
	logger *logging.Logger,
	version string,
) *Handlers {
	return &Handlers{
		dispatcher: dispatcher,
		factory:    factory,
		registry:   registry,
		bridge:     bridge,
		logger:     logger,
		version:    version,
	}
}

// Root handles the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Kiosk Host",
		"version": h.version,
	})
}

// Health handles detailed health checks.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"open_windows":      h.registry.Count(),
		"display_connected": h.bridge.Connected(),
	})
}

// createWindowRequest mirrors the create_new_window argument list.
// Fields are optional; wrong-typed values fail the bind and surface as
// an invalid message.
type createWindowRequest struct {
	Argv   []string `json:"argv"`
	Width  *int     `json:"width"`
	Height *int     `json:"height"`
	Title  *string  `json:"title"`
}

// CreateWindow handles create_new_window: open a window with the given
// arguments and preferences.
func (h *Handlers) CreateWindow(c *gin.Context) {
	var req createWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message: " + err.Error()})
		return
	}

	// Preferences are always attached, even when every field is empty;
	// their presence marks the new window as a subwindow.
	prefs := &window.Preferences{
		Title:  req.Title,
		Width:  req.Width,
		Height: req.Height,
	}

	if _, err := h.factory.Create(c.Request.Context(), req.Argv, prefs); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create window: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// messageRequest carries one raw command envelope.
type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SynchronousMessage handles the command protocol: parse the envelope,
// execute the operation, reply.
func (h *Handlers) SynchronousMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message: " + err.Error()})
		return
	}

	current := c.GetHeader(windowHeader)

	reply, err := h.dispatcher.Dispatch(c.Request.Context(), current, req.Message)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// statusFor maps dispatch failures onto HTTP statuses: malformed or
// unknown commands are client errors, display-layer refusals are not.
func statusFor(err error) int {
	var invalid *dispatch.InvalidMessageError
	var unknown *dispatch.UnknownOperationError
	if errors.As(err, &invalid) || errors.As(err, &unknown) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// ExecInvoke handles exec_invoke. Plugin execution in the host process
// is not implemented; the message is still validated, and the result
// says so explicitly instead of fabricating a success.
func (h *Handlers) ExecInvoke(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message: " + err.Error()})
		return
	}

	var payload interface{}
	if err := sonic.UnmarshalString(req.Message, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message: " + err.Error()})
		return
	}

	h.logger.Debug("received exec invoke", zap.String("message", req.Message))

	c.JSON(http.StatusOK, gin.H{
		"success":     false,
		"returnValue": nil,
		"error":       "plugin execution is not supported",
	})
}

// captureRequest is the rectangle to capture.
type captureRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CaptureToClipboard handles capture_to_clipboard. Screenshot capture
// needs platform support the host does not have yet.
func (h *Handlers) CaptureToClipboard(c *gin.Context) {
	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message: " + err.Error()})
		return
	}

	h.logger.Info("screenshot requested",
		zap.Int("x", req.X),
		zap.Int("y", req.Y),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
	)

	c.JSON(http.StatusNotImplemented, gin.H{"error": "screenshot capture is not supported"})
}
