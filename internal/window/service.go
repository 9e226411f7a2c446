package window

import "context"

// Spec is the request handed to the display layer when constructing a
// new window surface.
type Spec struct {
	Label     string `json:"label"`
	Title     string `json:"title"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	URL       string `json:"url"`
	Center    bool   `json:"center"`
	Resizable bool   `json:"resizable"`
}

// Handle identifies a created window surface. The surface itself is
// owned by the display layer; the host keeps only the label for later
// lookup and mutation.
type Handle struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Service is the external windowing/display collaborator. Implementations
// must fail fast rather than block indefinitely; every call is bounded by
// its context.
type Service interface {
	CreateWindow(ctx context.Context, spec Spec) error
	SetSize(ctx context.Context, label string, width, height int) error
	Maximize(ctx context.Context, label string) error
	Unmaximize(ctx context.Context, label string) error
}
