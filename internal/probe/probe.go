// Package probe assembles the host compatibility report. One report is
// built per invocation, from scratch, with no caching across runs.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/open-edge-platform/host-probe/internal/probe/distro"
	"github.com/open-edge-platform/host-probe/internal/probe/libc"
	"github.com/open-edge-platform/host-probe/internal/probe/osinfo"
	"github.com/open-edge-platform/host-probe/internal/probe/pkgmgr"
	"github.com/open-edge-platform/host-probe/internal/probe/sandbox"
	"github.com/open-edge-platform/host-probe/internal/utils/logger"
)

// Report is the aggregate result of one probe run. Linux-specific fields are
// nil pointers (absent in serialized form) when the host OS is unsupported
// or the corresponding sub-probe found nothing.
type Report struct {
	ReportID    string    `json:"report_id"`
	GeneratedAt time.Time `json:"generated_at"`

	OS        string `json:"os"`
	Kernel    string `json:"kernel"`
	Machine   string `json:"machine"`
	Supported bool   `json:"supported"`

	Sandbox        *sandbox.Status     `json:"sandbox,omitempty"`
	Distro         *distro.Info        `json:"distro,omitempty"`
	PackageManager *pkgmgr.Info        `json:"package_manager,omitempty"`
	Libc           *libc.Info          `json:"libc,omitempty"`
	LddEquivalent  *libc.LddEquivalent `json:"ldd_equivalent,omitempty"`
}

// Sub-probe entry points, swappable in tests.
var (
	collectOSInfo = osinfo.Collect
	detectSandbox = sandbox.Detect
	detectDistro  = distro.Detect
	detectPkgMgr  = pkgmgr.Detect
	detectLibc    = libc.Detect
)

// Collect runs the full probe. Every sub-probe isolates its own failure into
// a nil report field; after the OS-support decision the assembly itself
// cannot fail. A non-Linux host short-circuits to an OS-only report, which
// is a valid outcome, not an error.
func Collect(ctx context.Context) (*Report, error) {
	log := logger.Logger()

	summary, err := collectOSInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("detecting host OS: %w", err)
	}

	report := &Report{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		OS:          summary.Name,
		Kernel:      summary.KernelRelease,
		Machine:     summary.Machine,
		Supported:   summary.Supported,
	}

	if !report.Supported {
		log.Infof("Host OS %q is not Linux; skipping platform probes", report.OS)
		return report, nil
	}

	status := detectSandbox()
	report.Sandbox = &status

	if info, err := detectDistro(); err != nil {
		log.Warnf("Distro detection: %v", err)
	} else {
		report.Distro = info
	}

	if info, err := detectPkgMgr(); err != nil {
		log.Warnf("Package manager detection: %v", err)
	} else {
		report.PackageManager = info
	}

	libcInfo := detectLibc(ctx, report.Machine)
	report.Libc = &libcInfo

	recipe := libc.DeriveLdd(libcInfo.Family, libcInfo.SelectedLinker)
	report.LddEquivalent = &recipe

	log.Debugf("Probe complete: libc=%s/%s distro=%v", libcInfo.Family, libcInfo.Detector, report.Distro != nil)
	return report, nil
}
