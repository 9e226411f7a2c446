package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kiosk-sh/kiosk/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDisplay is a scripted display layer on the other end of the
// bridge: it answers every directive and can push events.
type fakeDisplay struct {
	conn       *websocket.Conn
	directives chan Directive
}

func dialDisplay(t *testing.T, bridge *Bridge) *fakeDisplay {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/display", bridge.HandleConnection)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/display"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	d := &fakeDisplay{conn: conn, directives: make(chan Directive, 16)}
	go func() {
		for {
			var directive Directive
			if err := conn.ReadJSON(&directive); err != nil {
				return
			}
			d.directives <- directive
			_ = conn.WriteJSON(Event{ID: directive.ID, Type: "reply", OK: true})
		}
	}()

	// Wait for the bridge to register the connection
	require.Eventually(t, bridge.Connected, time.Second, 5*time.Millisecond)
	return d
}

func TestBridgeCreateWindowRoundTrip(t *testing.T) {
	reg := window.NewRegistry()
	bridge := NewBridge(reg)
	display := dialDisplay(t, bridge)

	spec := window.Spec{
		Label:     "main-1",
		Title:     "Kiosk",
		Width:     1280,
		Height:    960,
		URL:       "index.html?executeThisArgvPlease=%5B%22shell%22%5D",
		Center:    true,
		Resizable: true,
	}
	err := bridge.CreateWindow(context.Background(), spec)
	require.NoError(t, err)

	directive := <-display.directives
	assert.Equal(t, "create-window", directive.Type)
	assert.Equal(t, "main-1", directive.Label)
	assert.Equal(t, "Kiosk", directive.Title)
	assert.Equal(t, 1280, directive.Width)
	assert.Equal(t, 960, directive.Height)
	assert.Equal(t, spec.URL, directive.URL)
	assert.True(t, directive.Center)
	assert.True(t, directive.Resizable)
	assert.NotEmpty(t, directive.ID)
}

func TestBridgeMutationDirectives(t *testing.T) {
	bridge := NewBridge(window.NewRegistry())
	display := dialDisplay(t, bridge)
	ctx := context.Background()

	require.NoError(t, bridge.SetSize(ctx, "main-2", 1400, 1050))
	directive := <-display.directives
	assert.Equal(t, "set-size", directive.Type)
	assert.Equal(t, "main-2", directive.Label)
	assert.Equal(t, 1400, directive.Width)
	assert.Equal(t, 1050, directive.Height)

	require.NoError(t, bridge.Maximize(ctx, "main-2"))
	assert.Equal(t, "maximize", (<-display.directives).Type)

	require.NoError(t, bridge.Unmaximize(ctx, "main-2"))
	assert.Equal(t, "unmaximize", (<-display.directives).Type)
}

func TestBridgeWindowClosedReleasesRegistry(t *testing.T) {
	reg := window.NewRegistry()
	reg.AllocateLabel()
	reg.AllocateLabel()

	bridge := NewBridge(reg)
	display := dialDisplay(t, bridge)

	require.NoError(t, display.conn.WriteJSON(Event{Type: "window-closed", Label: "main-2"}))

	assert.Eventually(t, func() bool { return reg.Count() == 1 }, time.Second, 5*time.Millisecond)

	// Duplicate close events never drive the counter negative
	require.NoError(t, display.conn.WriteJSON(Event{Type: "window-closed", Label: "main-2"}))
	require.NoError(t, display.conn.WriteJSON(Event{Type: "window-closed", Label: "main-1"}))
	assert.Eventually(t, func() bool { return reg.Count() == 0 }, time.Second, 5*time.Millisecond)
}

func TestBridgeNoDisplay(t *testing.T) {
	bridge := NewBridge(window.NewRegistry())

	err := bridge.SetSize(context.Background(), "main-1", 100, 100)
	assert.ErrorIs(t, err, ErrNoDisplay)
}

func TestBridgeDisplayRefusal(t *testing.T) {
	bridge := NewBridge(window.NewRegistry())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/display", bridge.HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/display"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		var directive Directive
		if err := conn.ReadJSON(&directive); err != nil {
			return
		}
		_ = conn.WriteJSON(Event{ID: directive.ID, Type: "reply", Error: "no such window"})
	}()

	require.Eventually(t, bridge.Connected, time.Second, 5*time.Millisecond)

	err = bridge.Maximize(context.Background(), "main-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such window")
}

func TestBridgeOnRegister(t *testing.T) {
	bridge := NewBridge(window.NewRegistry())

	registered := make(chan struct{}, 1)
	bridge.OnRegister(func() { registered <- struct{}{} })

	dialDisplay(t, bridge)

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("OnRegister callback never fired")
	}
}
