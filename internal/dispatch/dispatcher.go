package dispatch

import (
	"context"
	"fmt"

	"github.com/kiosk-sh/kiosk/internal/logging"
	"github.com/kiosk-sh/kiosk/internal/monitoring"
	"github.com/kiosk-sh/kiosk/internal/window"
	"go.uber.org/zap"
)

// Fixed sizes for the enlarge/reduce operations.
const (
	enlargeWidth  = 1400
	enlargeHeight = 1050
	reduceWidth   = 1024
	reduceHeight  = 768
)

// Exiter is the process-exit primitive. The default implementation calls
// os.Exit; tests inject a recorder.
type Exiter interface {
	Exit(code int)
}

// ExitFunc adapts a function to the Exiter interface.
type ExitFunc func(code int)

// Exit calls f(code).
func (f ExitFunc) Exit(code int) { f(code) }

// Dispatcher routes decoded commands to window and application
// mutations. Each message is independent; the only state it touches is
// the registry behind the factory and the process lifecycle.
type Dispatcher struct {
	factory *window.Factory
	svc     window.Service
	exiter  Exiter
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(factory *window.Factory, svc window.Service, exiter Exiter) *Dispatcher {
	return &Dispatcher{
		factory: factory,
		svc:     svc,
		exiter:  exiter,
		logger:  logging.NewNop(),
	}
}

// WithLogger attaches a logger to the dispatcher.
func (d *Dispatcher) WithLogger(logger *logging.Logger) *Dispatcher {
	d.logger = logger
	return d
}

// WithMetrics adds metrics tracking to the dispatcher.
func (d *Dispatcher) WithMetrics(metrics *monitoring.Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// Dispatch parses raw as a command envelope and executes it against the
// window identified by current (the window the message came from). It
// returns the reply for the UI, or an error whose message is surfaced to
// the caller verbatim. No failure here is fatal to the application; only
// an explicit quit ends the process, and that is a success.
func (d *Dispatcher) Dispatch(ctx context.Context, current string, raw string) (string, error) {
	cmd, err := Decode(raw)
	if err != nil {
		d.record("invalid", "error")
		return "", err
	}

	d.logger.Debug("received synchronous message", zap.String("operation", cmd.Operation()))

	if err := d.execute(ctx, current, cmd); err != nil {
		d.record(cmd.Operation(), "error")
		return "", err
	}

	d.record(cmd.Operation(), "ok")
	return "ok", nil
}

func (d *Dispatcher) execute(ctx context.Context, current string, cmd Command) error {
	switch c := cmd.(type) {
	case Quit:
		d.exiter.Exit(0)
		return nil

	case NewWindow:
		prefs := &window.Preferences{
			Title:  c.Title,
			Width:  c.Width,
			Height: c.Height,
		}
		if _, err := d.factory.Create(ctx, c.Argv, prefs); err != nil {
			return fmt.Errorf("Failed to create window: %v", err)
		}
		return nil

	case OpenGraphicalShell:
		if _, err := d.factory.Create(ctx, []string{"shell"}, nil); err != nil {
			return fmt.Errorf("Failed to create shell window: %v", err)
		}
		return nil

	case EnlargeWindow:
		if err := d.svc.SetSize(ctx, current, enlargeWidth, enlargeHeight); err != nil {
			return fmt.Errorf("Failed to enlarge window: %v", err)
		}
		return nil

	case ReduceWindow:
		if err := d.svc.SetSize(ctx, current, reduceWidth, reduceHeight); err != nil {
			return fmt.Errorf("Failed to reduce window: %v", err)
		}
		return nil

	case MaximizeWindow:
		if err := d.svc.Maximize(ctx, current); err != nil {
			return fmt.Errorf("Failed to maximize window: %v", err)
		}
		return nil

	case UnmaximizeWindow:
		if err := d.svc.Unmaximize(ctx, current); err != nil {
			return fmt.Errorf("Failed to unmaximize window: %v", err)
		}
		return nil

	default:
		// Decode only produces the variants above.
		return &UnknownOperationError{Name: cmd.Operation()}
	}
}

func (d *Dispatcher) record(operation, status string) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(operation, status)
	}
}
