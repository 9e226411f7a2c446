package window

// Preferences describes the desired shape of one window. Every field is
// optional; absent fields fall back to configured defaults at resolve
// time. The JSON form is the wire contract for the "subwindow" launch
// parameter, so tag names must stay stable.
type Preferences struct {
	Title            *string `json:"title,omitempty"`
	Width            *int    `json:"width,omitempty"`
	Height           *int    `json:"height,omitempty"`
	Fullscreen       *bool   `json:"fullscreen,omitempty"`
	InitialTabTitle  *string `json:"initial_tab_title,omitempty"`
	QuietExecCommand *bool   `json:"quiet_exec_command,omitempty"`
}
