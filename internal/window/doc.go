// Package window holds the window lifecycle core: the registry of open
// window surfaces, preference resolution, launch URL construction, and
// the factory that asks the display layer to build new surfaces.
package window
