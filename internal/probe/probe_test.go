package probe

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/open-edge-platform/host-probe/internal/probe/distro"
	"github.com/open-edge-platform/host-probe/internal/probe/libc"
	"github.com/open-edge-platform/host-probe/internal/probe/osinfo"
	"github.com/open-edge-platform/host-probe/internal/probe/pkgmgr"
	"github.com/open-edge-platform/host-probe/internal/probe/sandbox"
)

type probeStubs struct {
	osinfo  osinfo.Summary
	osErr   error
	sandbox sandbox.Status
	distro  *distro.Info
	distErr error
	pkgmgr  *pkgmgr.Info
	pkgErr  error
	libc    libc.Info
}

func installStubs(t *testing.T, s probeStubs) {
	t.Helper()
	origOS, origSandbox := collectOSInfo, detectSandbox
	origDistro, origPkg, origLibc := detectDistro, detectPkgMgr, detectLibc
	t.Cleanup(func() {
		collectOSInfo, detectSandbox = origOS, origSandbox
		detectDistro, detectPkgMgr, detectLibc = origDistro, origPkg, origLibc
	})
	collectOSInfo = func(context.Context) (osinfo.Summary, error) { return s.osinfo, s.osErr }
	detectSandbox = func() sandbox.Status { return s.sandbox }
	detectDistro = func() (*distro.Info, error) { return s.distro, s.distErr }
	detectPkgMgr = func() (*pkgmgr.Info, error) { return s.pkgmgr, s.pkgErr }
	detectLibc = func(context.Context, string) libc.Info { return s.libc }
}

func TestCollectGlibcHost(t *testing.T) {
	installStubs(t, probeStubs{
		osinfo:  osinfo.Summarize("linux", "6.8.0-45-generic", "x86_64"),
		sandbox: sandbox.Status{},
		distro:  &distro.Info{ID: "ubuntu", Name: "Ubuntu", VersionID: "24.04"},
		pkgmgr:  &pkgmgr.Info{Packages: []string{"apt"}, Available: []string{"/usr/bin/apt"}},
		libc: libc.Info{
			Family:         libc.FamilyGlibc,
			Version:        "2.39",
			SelectedLinker: "/lib64/ld-linux-x86-64.so.2",
			Detector:       libc.DetectorSelfReport,
		},
	})

	report, err := Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !report.Supported {
		t.Fatal("expected supported report for linux host")
	}
	if _, err := uuid.Parse(report.ReportID); err != nil {
		t.Errorf("report ID %q is not a UUID: %v", report.ReportID, err)
	}
	if report.GeneratedAt.IsZero() || time.Since(report.GeneratedAt) > time.Minute {
		t.Errorf("unexpected generation timestamp %v", report.GeneratedAt)
	}
	if report.Kernel != "6.8.0-45-generic" || report.Machine != "x86_64" {
		t.Errorf("unexpected OS fields: kernel=%q machine=%q", report.Kernel, report.Machine)
	}
	if report.Sandbox == nil || report.Sandbox.Snap || report.Sandbox.Flatpak {
		t.Errorf("unexpected sandbox status %+v", report.Sandbox)
	}
	if report.Distro == nil || report.Distro.ID != "ubuntu" {
		t.Errorf("unexpected distro %+v", report.Distro)
	}
	if report.PackageManager == nil || len(report.PackageManager.Available) == 0 {
		t.Errorf("unexpected package manager %+v", report.PackageManager)
	}
	if report.Libc == nil || report.Libc.Family != libc.FamilyGlibc || report.Libc.Version != "2.39" {
		t.Fatalf("unexpected libc %+v", report.Libc)
	}
	if report.LddEquivalent == nil || report.LddEquivalent.Method != libc.LddMethodGlibc {
		t.Fatalf("unexpected ldd recipe %+v", report.LddEquivalent)
	}
	if len(report.LddEquivalent.CmdTemplate) == 0 || report.LddEquivalent.CmdTemplate[0] != "/lib64/ld-linux-x86-64.so.2" {
		t.Errorf("ldd recipe template = %v, want it to start with the selected linker", report.LddEquivalent.CmdTemplate)
	}
}

func TestCollectUnsupportedOS(t *testing.T) {
	installStubs(t, probeStubs{
		osinfo: osinfo.Summarize("darwin", "23.6.0", "arm64"),
	})

	report, err := Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if report.Supported {
		t.Fatal("darwin host must be unsupported")
	}
	if report.OS != "darwin" || report.Machine != "arm64" {
		t.Errorf("unexpected OS fields: os=%q machine=%q", report.OS, report.Machine)
	}
	if report.Sandbox != nil || report.Distro != nil || report.PackageManager != nil {
		t.Error("platform probe fields must stay nil on unsupported hosts")
	}
	if report.Libc != nil || report.LddEquivalent != nil {
		t.Error("libc fields must stay nil on unsupported hosts")
	}
}

func TestCollectBareHostWithApt(t *testing.T) {
	installStubs(t, probeStubs{
		osinfo:  osinfo.Summarize("Linux", "6.1.0-18-amd64", "x86_64"),
		sandbox: sandbox.Status{},
		distErr: distro.ErrNoReleaseFile,
		pkgmgr:  &pkgmgr.Info{Packages: []string{"apt"}, Available: []string{"/usr/bin/apt"}},
		libc: libc.Info{
			Family:   libc.FamilyGlibc,
			Version:  "2.36",
			Detector: libc.DetectorOSProvided,
		},
	})

	report, err := Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !report.Supported {
		t.Fatal("expected supported report")
	}
	if report.Sandbox == nil || report.Sandbox.Snap || report.Sandbox.Flatpak {
		t.Errorf("unexpected sandbox status %+v", report.Sandbox)
	}
	if report.Distro != nil {
		t.Errorf("missing release file must yield a nil distro, got %+v", report.Distro)
	}
	if report.PackageManager == nil || !slices.Contains(report.PackageManager.Packages, "apt") {
		t.Errorf("expected apt in package manager report, got %+v", report.PackageManager)
	}
	if report.Libc == nil || report.Libc.Detector != libc.DetectorOSProvided {
		t.Fatalf("unexpected libc %+v", report.Libc)
	}
	if report.LddEquivalent == nil || report.LddEquivalent.Method != libc.LddMethodNone {
		t.Errorf("no linker means no ldd recipe, got %+v", report.LddEquivalent)
	}
}

func TestCollectOSInfoError(t *testing.T) {
	installStubs(t, probeStubs{osErr: errors.New("sysinfo unavailable")})

	if _, err := Collect(context.Background()); err == nil {
		t.Fatal("expected error when host info cannot be read")
	}
}

func TestCollectIsolatesProbeFailures(t *testing.T) {
	installStubs(t, probeStubs{
		osinfo:  osinfo.Summarize("Linux", "5.15.0", "aarch64"),
		distErr: distro.ErrNoReleaseFile,
		pkgErr:  pkgmgr.ErrNoPackageManager,
		libc: libc.Info{
			Family:   libc.FamilyUnknown,
			Detector: libc.DetectorOSProvided,
		},
	})

	report, err := Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !report.Supported {
		t.Fatal("case-insensitive OS match expected")
	}
	if report.Distro != nil || report.PackageManager != nil {
		t.Error("failed probes must yield nil fields, not errors")
	}
	if report.Libc == nil || report.Libc.Family != libc.FamilyUnknown {
		t.Fatalf("unexpected libc %+v", report.Libc)
	}
	if report.LddEquivalent == nil || report.LddEquivalent.Method != libc.LddMethodNone {
		t.Errorf("unknown libc must derive an empty ldd recipe, got %+v", report.LddEquivalent)
	}
}
