// Package ws bridges the host to the native display layer over a
// WebSocket connection. The display layer dials in, executes window
// directives against real OS surfaces, and pushes asynchronous
// window-closed events back to the host.
package ws
