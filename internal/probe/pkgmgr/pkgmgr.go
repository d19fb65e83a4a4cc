// Package pkgmgr discovers the package managers installed on the host.
package pkgmgr

import (
	"errors"
	"os/exec"
	"path/filepath"
)

// Catalog lists the known package-manager binaries in report order. Several
// may resolve at once (e.g. a Nix overlay on top of Debian); all hits are
// reported.
var Catalog = []string{
	"apt",
	"apt-get",
	"dnf",
	"yum",
	"zypper",
	"pacman",
	"apk",
	"xbps-install",
	"emerge",
	"nix",
	"nix-env",
	"swupd",
	"eopkg",
	"urpmi",
}

// ErrNoPackageManager is reported when nothing from the catalog resolves.
// Callers treat it as a degraded report field, not a fatal condition.
var ErrNoPackageManager = errors.New("no package manager found")

// Info lists the resolvable package managers, catalog order preserved.
// Packages holds the catalog names that resolved, Available their canonical
// filesystem paths.
type Info struct {
	Packages  []string `json:"packages"`
	Available []string `json:"available"`
}

var execLookPath = exec.LookPath

// Detect resolves every catalog entry against the executable search path.
func Detect() (*Info, error) {
	info := &Info{}

	for _, name := range Catalog {
		path, err := execLookPath(name)
		if err != nil {
			continue
		}
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			resolved = path
		}
		info.Packages = append(info.Packages, name)
		info.Available = append(info.Available, resolved)
	}

	if len(info.Packages) == 0 {
		return nil, ErrNoPackageManager
	}
	return info, nil
}
