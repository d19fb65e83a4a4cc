// Package sandbox detects Snap and Flatpak confinement of the current
// process from environment variables and the Flatpak runtime marker file.
package sandbox

import "os"

// FlatpakMarkerFile is created by the Flatpak runtime inside every sandbox.
var FlatpakMarkerFile = "/.flatpak-info"

// Status reports the sandboxing context of the running process.
type Status struct {
	Snap    bool `json:"snap"`
	Flatpak bool `json:"flatpak"`
}

// Detect inspects the process environment. Pure lookup, never fails.
func Detect() Status {
	snap := os.Getenv("SNAP") != "" || os.Getenv("SNAP_NAME") != ""

	flatpak := os.Getenv("FLATPAK_ID") != "" || os.Getenv("FLATPAK_SESSION_HELPER") != ""
	if !flatpak {
		if _, err := os.Stat(FlatpakMarkerFile); err == nil {
			flatpak = true
		}
	}

	return Status{Snap: snap, Flatpak: flatpak}
}
