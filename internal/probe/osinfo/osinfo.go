// Package osinfo reports the host operating system, kernel release and
// machine architecture.
package osinfo

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// Summary describes the host at the OS level. Supported gates every
// Linux-specific probe downstream.
type Summary struct {
	Name          string
	KernelRelease string
	Machine       string
	Supported     bool
}

// Collect reads host information. It works on any OS so the probe can still
// emit an "unsupported" report off Linux.
func Collect(ctx context.Context) (Summary, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("reading host info: %w", err)
	}
	return Summarize(info.OS, info.KernelVersion, info.KernelArch), nil
}

// Summarize derives the support decision from raw host values. Supported is
// true iff the OS name equals "linux" ignoring case.
func Summarize(name, kernelRelease, machine string) Summary {
	return Summary{
		Name:          name,
		KernelRelease: kernelRelease,
		Machine:       machine,
		Supported:     strings.EqualFold(name, "linux"),
	}
}
