package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeQuit(t *testing.T) {
	cmd, err := Decode(`{"operation":"quit"}`)
	require.NoError(t, err)
	assert.IsType(t, Quit{}, cmd)
}

func TestDecodeNewWindow(t *testing.T) {
	raw := `{"operation":"new-window","argv":["shell"],"width":800,"height":600,"title":"Terminal"}`
	cmd, err := Decode(raw)
	require.NoError(t, err)

	nw, ok := cmd.(NewWindow)
	require.True(t, ok)
	assert.Equal(t, []string{"shell"}, nw.Argv)
	require.NotNil(t, nw.Width)
	assert.Equal(t, 800, *nw.Width)
	require.NotNil(t, nw.Height)
	assert.Equal(t, 600, *nw.Height)
	require.NotNil(t, nw.Title)
	assert.Equal(t, "Terminal", *nw.Title)
}

func TestDecodeNewWindowNoData(t *testing.T) {
	cmd, err := Decode(`{"operation":"new-window"}`)
	require.NoError(t, err)

	nw := cmd.(NewWindow)
	assert.Nil(t, nw.Argv)
	assert.Nil(t, nw.Width)
	assert.Nil(t, nw.Height)
	assert.Nil(t, nw.Title)
}

// Wrong-typed optional fields read as "no preference", not as a parse
// error. UI payloads are not schema-validated upstream.
func TestDecodeMalformedOptionalFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"string width", `{"operation":"new-window","width":"wide"}`},
		{"float width", `{"operation":"new-window","width":100.5}`},
		{"null width", `{"operation":"new-window","width":null}`},
		{"negative width", `{"operation":"new-window","width":-640}`},
		{"zero width", `{"operation":"new-window","width":0}`},
		{"object argv", `{"operation":"new-window","argv":{"a":1}}`},
		{"numeric title", `{"operation":"new-window","title":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Decode(tt.raw)
			require.NoError(t, err)

			nw := cmd.(NewWindow)
			assert.Nil(t, nw.Width)
			assert.Nil(t, nw.Argv)
			assert.Nil(t, nw.Title)
		})
	}
}

func TestDecodeSimpleOperations(t *testing.T) {
	tests := []struct {
		raw  string
		want Command
	}{
		{`{"operation":"open-graphical-shell"}`, OpenGraphicalShell{}},
		{`{"operation":"enlarge-window"}`, EnlargeWindow{}},
		{`{"operation":"reduce-window"}`, ReduceWindow{}},
		{`{"operation":"maximize-window"}`, MaximizeWindow{}},
		{`{"operation":"unmaximize-window"}`, UnmaximizeWindow{}},
	}

	for _, tt := range tests {
		cmd, err := Decode(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, cmd)
	}
}

func TestDecodeUnknownOperation(t *testing.T) {
	_, err := Decode(`{"operation":"bogus"}`)
	require.Error(t, err)

	var unknown *UnknownOperationError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bogus", unknown.Name)
	assert.Contains(t, err.Error(), "bogus")
}

func TestDecodeCaseSensitive(t *testing.T) {
	_, err := Decode(`{"operation":"Quit"}`)

	var unknown *UnknownOperationError
	require.True(t, errors.As(err, &unknown))
}

func TestDecodeInvalidMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `not json at all`},
		{"truncated", `{"operation":`},
		{"missing operation", `{"data":1}`},
		{"null operation", `{"operation":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)

			var invalid *InvalidMessageError
			assert.True(t, errors.As(err, &invalid))
			assert.Contains(t, err.Error(), "Invalid message")
		})
	}
}
