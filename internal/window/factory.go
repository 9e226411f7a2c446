package window

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiosk-sh/kiosk/internal/logging"
	"github.com/kiosk-sh/kiosk/internal/monitoring"
	"go.uber.org/zap"
)

// Factory creates window surfaces through the display service.
type Factory struct {
	svc      Service
	registry *Registry
	defaults Defaults
	base     string
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// NewFactory creates a factory. base is the document reference new
// windows load, relative to the hosted UI's document root.
func NewFactory(svc Service, registry *Registry, defaults Defaults, base string) *Factory {
	return &Factory{
		svc:      svc,
		registry: registry,
		defaults: defaults,
		base:     base,
		logger:   logging.NewNop(),
	}
}

// WithLogger attaches a logger to the factory.
func (f *Factory) WithLogger(logger *logging.Logger) *Factory {
	f.logger = logger
	return f
}

// WithMetrics adds metrics tracking to the factory.
func (f *Factory) WithMetrics(metrics *monitoring.Metrics) *Factory {
	f.metrics = metrics
	return f
}

// Create allocates a label, resolves configuration and asks the display
// service to construct the window. The counter is incremented exactly
// once per call; a label allocated for a creation the display layer then
// refuses is skipped, never reclaimed.
func (f *Factory) Create(ctx context.Context, argv []string, prefs *Preferences) (Handle, error) {
	label := f.registry.AllocateLabel()
	cfg := Resolve(f.defaults, prefs)
	launchURL := LaunchURL(f.base, argv, prefs)

	f.logger.Debug("creating window",
		zap.String("label", label),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.String("url", launchURL),
	)

	spec := Spec{
		Label:     label,
		Title:     cfg.Title,
		Width:     cfg.Width,
		Height:    cfg.Height,
		URL:       launchURL,
		Center:    true,
		Resizable: true,
	}

	if err := f.svc.CreateWindow(ctx, spec); err != nil {
		return Handle{}, fmt.Errorf("display service rejected window %s: %w", label, err)
	}

	if f.metrics != nil {
		f.metrics.WindowsCreated.Inc()
		f.metrics.WindowsOpen.Set(float64(f.registry.Count()))
	}

	return Handle{ID: uuid.New().String(), Label: label}, nil
}
