package pkgmgr_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/open-edge-platform/host-probe/internal/probe/pkgmgr"
)

func fakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("writing fake binary: %v", err)
	}
	return path
}

func TestDetectFindsCatalogEntries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH semantics differ on windows")
	}

	dir := t.TempDir()
	fakeBinary(t, dir, "apt")
	fakeBinary(t, dir, "nix")
	fakeBinary(t, dir, "not-a-package-manager")
	t.Setenv("PATH", dir)

	info, err := pkgmgr.Detect()
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	// catalog order: apt before nix, stray binaries ignored
	want := []string{"apt", "nix"}
	if len(info.Packages) != len(want) {
		t.Fatalf("packages = %v, want %v", info.Packages, want)
	}
	for i, name := range want {
		if info.Packages[i] != name {
			t.Errorf("packages[%d] = %q, want %q", i, info.Packages[i], name)
		}
	}
	if len(info.Available) != 2 {
		t.Fatalf("available = %v, want two resolved paths", info.Available)
	}
	for i, path := range info.Available {
		if !filepath.IsAbs(path) {
			t.Errorf("available[%d] = %q, want absolute path", i, path)
		}
	}
}

func TestDetectResolvesSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH semantics differ on windows")
	}

	dir := t.TempDir()
	real := fakeBinary(t, dir, "apt-real")
	link := filepath.Join(dir, "apt")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	t.Setenv("PATH", dir)

	info, err := pkgmgr.Detect()
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	resolved, err := filepath.EvalSymlinks(real)
	if err != nil {
		t.Fatalf("resolving fixture: %v", err)
	}
	if info.Available[0] != resolved {
		t.Errorf("available[0] = %q, want symlink target %q", info.Available[0], resolved)
	}
}

func TestDetectNothingFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := pkgmgr.Detect()
	if !errors.Is(err, pkgmgr.ErrNoPackageManager) {
		t.Errorf("expected ErrNoPackageManager, got %v", err)
	}
}
