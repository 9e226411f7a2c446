package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kiosk-sh/kiosk/internal/logging"
	"github.com/kiosk-sh/kiosk/internal/monitoring"
	"github.com/kiosk-sh/kiosk/internal/window"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // The display layer connects from its own origin
	},
}

// defaultTimeout bounds how long a directive may wait for the display
// layer. No dispatch is allowed to hang indefinitely.
const defaultTimeout = 10 * time.Second

// Directive is a window mutation request sent to the display layer.
type Directive struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "create-window", "set-size", "maximize", "unmaximize"

	Label  string `json:"label,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`

	// Window construction fields, set only for "create-window".
	Title     string `json:"title,omitempty"`
	URL       string `json:"url,omitempty"`
	Center    bool   `json:"center,omitempty"`
	Resizable bool   `json:"resizable,omitempty"`
}

// Event is a message from the display layer: a correlated reply to a
// directive, or an asynchronous notification.
type Event struct {
	ID    string `json:"id,omitempty"`
	Type  string `json:"type"` // "reply", "window-closed"
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
	Label string `json:"label,omitempty"`
}

// ErrNoDisplay is returned when a directive is issued while no display
// layer is connected.
var ErrNoDisplay = errors.New("no display connected")

// Bridge manages the display connection and implements window.Service
// over it. One display layer is connected at a time; a new connection
// replaces the previous one.
type Bridge struct {
	registry *window.Registry
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	timeout  time.Duration

	onRegister func() // invoked each time a display layer connects

	mu      sync.Mutex
	conn    *websocket.Conn // Protected by mu
	pending map[string]chan Event
}

// NewBridge creates a bridge that reports close events to registry.
func NewBridge(registry *window.Registry) *Bridge {
	return &Bridge{
		registry: registry,
		logger:   logging.NewNop(),
		timeout:  defaultTimeout,
		pending:  make(map[string]chan Event),
	}
}

// WithLogger attaches a logger to the bridge.
func (b *Bridge) WithLogger(logger *logging.Logger) *Bridge {
	b.logger = logger
	return b
}

// WithMetrics adds metrics tracking to the bridge.
func (b *Bridge) WithMetrics(metrics *monitoring.Metrics) *Bridge {
	b.metrics = metrics
	return b
}

// OnRegister sets a callback fired whenever a display layer connects.
func (b *Bridge) OnRegister(fn func()) {
	b.onRegister = fn
}

// Connected reports whether a display layer is currently attached.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// HandleConnection upgrades the request and serves the display session
// until the connection drops.
func (b *Bridge) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		b.logger.Warn("display upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	b.attach(conn)
	defer b.detach(conn)

	b.logger.Info("display layer connected", zap.String("remote", conn.RemoteAddr().String()))
	if b.onRegister != nil {
		go b.onRegister()
	}

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			b.logger.Info("display layer disconnected", zap.Error(err))
			return
		}

		switch ev.Type {
		case "reply":
			b.resolve(ev)
		case "window-closed":
			b.registry.Release()
			remaining := b.registry.Count()
			b.logger.Debug("window closed",
				zap.String("label", ev.Label),
				zap.Int("remaining", remaining),
			)
			if b.metrics != nil {
				b.metrics.WindowsClosed.Inc()
				b.metrics.WindowsOpen.Set(float64(remaining))
			}
		default:
			b.logger.Warn("unknown display event", zap.String("type", ev.Type))
		}
	}
}

func (b *Bridge) attach(conn *websocket.Conn) {
	b.mu.Lock()
	if b.conn != nil {
		b.conn.Close()
	}
	b.conn = conn
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.DisplayConnected.Set(1)
	}
}

func (b *Bridge) detach(conn *websocket.Conn) {
	b.mu.Lock()
	if b.conn == conn {
		b.conn = nil
	}
	// Fail anything still waiting on this connection.
	for id, ch := range b.pending {
		select {
		case ch <- Event{ID: id, Type: "reply", Error: "display disconnected"}:
		default:
		}
		delete(b.pending, id)
	}
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.DisplayConnected.Set(0)
	}
}

// resolve routes a correlated reply to its waiting directive.
func (b *Bridge) resolve(ev Event) {
	b.mu.Lock()
	ch, ok := b.pending[ev.ID]
	if ok {
		delete(b.pending, ev.ID)
	}
	b.mu.Unlock()

	if ok {
		ch <- ev
	}
}

// do sends a directive and waits for its reply, bounded by the bridge
// timeout and the caller's context.
func (b *Bridge) do(ctx context.Context, d Directive) error {
	d.ID = uuid.New().String()
	ch := make(chan Event, 1)

	b.mu.Lock()
	conn := b.conn
	if conn == nil {
		b.mu.Unlock()
		return ErrNoDisplay
	}
	b.pending[d.ID] = ch
	err := conn.WriteJSON(d)
	b.mu.Unlock()

	if err != nil {
		b.forget(d.ID)
		return fmt.Errorf("write to display: %w", err)
	}

	select {
	case ev := <-ch:
		if ev.Error != "" {
			return errors.New(ev.Error)
		}
		if !ev.OK {
			return fmt.Errorf("display refused %s", d.Type)
		}
		return nil
	case <-ctx.Done():
		b.forget(d.ID)
		return ctx.Err()
	case <-time.After(b.timeout):
		b.forget(d.ID)
		return fmt.Errorf("display did not answer %s within %s", d.Type, b.timeout)
	}
}

func (b *Bridge) forget(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

// CreateWindow implements window.Service.
func (b *Bridge) CreateWindow(ctx context.Context, spec window.Spec) error {
	return b.do(ctx, Directive{
		Type:      "create-window",
		Label:     spec.Label,
		Title:     spec.Title,
		Width:     spec.Width,
		Height:    spec.Height,
		URL:       spec.URL,
		Center:    spec.Center,
		Resizable: spec.Resizable,
	})
}

// SetSize implements window.Service.
func (b *Bridge) SetSize(ctx context.Context, label string, width, height int) error {
	return b.do(ctx, Directive{Type: "set-size", Label: label, Width: width, Height: height})
}

// Maximize implements window.Service.
func (b *Bridge) Maximize(ctx context.Context, label string) error {
	return b.do(ctx, Directive{Type: "maximize", Label: label})
}

// Unmaximize implements window.Service.
func (b *Bridge) Unmaximize(ctx context.Context, label string) error {
	return b.do(ctx, Directive{Type: "unmaximize", Label: label})
}
