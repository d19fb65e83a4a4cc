// Package libc identifies the C library implementation of the running host.
//
// Linux has no authoritative API for this, so identification is a cascade of
// heuristics: the dynamic linker's own --version banner is the primary
// signal, a paired `ldd --version` the secondary one, and markers read from
// the installed libc binary itself the safety net. Version extraction is
// deliberately permissive; distributions decorate version strings freely.
package libc

import (
	"bytes"
	"context"
	"debug/elf"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/open-edge-platform/host-probe/internal/utils/logger"
	"github.com/open-edge-platform/host-probe/internal/utils/runner"
)

// Family is the detected C library implementation.
type Family string

const (
	FamilyGlibc   Family = "glibc"
	FamilyMusl    Family = "musl"
	FamilyUnknown Family = "unknown"
)

// Detector names the cascade step that produced a classification.
type Detector string

const (
	DetectorSelfReport  Detector = "linker-self-report"
	DetectorLddFallback Detector = "ldd-fallback"
	DetectorOSProvided  Detector = "os-provided"
)

// Info is the result of one libc classification. Computed once per probe run
// and immutable afterward.
type Info struct {
	Family         Family   `json:"family"`
	Version        string   `json:"version,omitempty"`
	SelectedLinker string   `json:"selected_linker,omitempty"`
	Detector       Detector `json:"detector"`
}

// InvokeTimeout bounds each external process invocation made during
// classification. The probe command overrides it from configuration.
var InvokeTimeout = 5 * time.Second

var (
	// musl banners put the release on a "Version x.y.z" line below a header
	// that itself contains digits ("musl libc (x86_64)"), so the first branch
	// skips ahead to a "version" token across lines; the second covers bare
	// "musl x.y.z" strings.
	muslVersionRe  = regexp.MustCompile(`(?is)musl(?:.*?\bversion\s+|[^0-9]*)([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)
	glibcVersionRe = regexp.MustCompile(`(?i)(?:glibc|gnu c library)[^0-9]*([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)
)

// classifyContext carries the selected linker and lazily-fetched process
// output shared by the cascade rules, so a rule list stays side-effect free
// to evaluate in order while each signal is fetched at most once.
type classifyContext struct {
	ctx    context.Context
	linker string

	selfReportText string
	selfReportDone bool
	lddText        string
	lddDone        bool
}

func (c *classifyContext) selfReport() string {
	if !c.selfReportDone {
		c.selfReportDone = true
		tctx, cancel := context.WithTimeout(c.ctx, InvokeTimeout)
		defer cancel()
		res := runner.Run(tctx, c.linker, "--version")
		if !res.TimedOut() {
			c.selfReportText = strings.ToLower(res.Combined())
		}
	}
	return c.selfReportText
}

func (c *classifyContext) lddReport() string {
	if !c.lddDone {
		c.lddDone = true
		tctx, cancel := context.WithTimeout(c.ctx, InvokeTimeout)
		defer cancel()
		res := runner.RunWith(tctx, c.linker, "ldd", "--version")
		if !res.TimedOut() {
			c.lddText = strings.ToLower(res.Combined())
		}
	}
	return c.lddText
}

// classifyRule pairs a predicate with the Info it yields. Rules are
// evaluated strictly in order; the first match wins.
type classifyRule struct {
	name    string
	matches func(c *classifyContext) bool
	build   func(c *classifyContext) Info
}

var classifyRules = []classifyRule{
	{
		name: "musl self-report",
		matches: func(c *classifyContext) bool {
			return strings.Contains(c.selfReport(), "musl")
		},
		build: func(c *classifyContext) Info {
			return Info{
				Family:         FamilyMusl,
				Version:        extractVersion(muslVersionRe, c.selfReport()),
				SelectedLinker: c.linker,
				Detector:       DetectorSelfReport,
			}
		},
	},
	{
		name: "glibc self-report",
		matches: func(c *classifyContext) bool {
			text := c.selfReport()
			return strings.Contains(text, "glibc") ||
				strings.Contains(text, "gnu c library") ||
				strings.Contains(filepath.Base(c.linker), "ld-linux")
		},
		build: func(c *classifyContext) Info {
			return Info{
				Family:         FamilyGlibc,
				Version:        extractVersion(glibcVersionRe, c.selfReport()),
				SelectedLinker: c.linker,
				Detector:       DetectorSelfReport,
			}
		},
	},
	{
		// Some loaders print nothing useful themselves but their paired ldd
		// does. musl's ldd is the loader run with argv[0] set to "ldd".
		name: "musl ldd fallback",
		matches: func(c *classifyContext) bool {
			return strings.Contains(c.lddReport(), "musl")
		},
		build: func(c *classifyContext) Info {
			return Info{
				Family:         FamilyMusl,
				Version:        extractVersion(muslVersionRe, c.lddReport()),
				SelectedLinker: c.linker,
				Detector:       DetectorLddFallback,
			}
		},
	},
}

// Detect locates the host's dynamic linkers and classifies its libc. machine
// is the host architecture string used to rank linker candidates.
func Detect(ctx context.Context, machine string) Info {
	return Classify(ctx, FindLinkers(machine))
}

// Classify runs the identification cascade against the ranked linker
// candidates. Only the best candidate is interrogated; with no candidate at
// all, or when every textual signal comes up empty, classification falls
// back to markers read from the installed libc binary.
func Classify(ctx context.Context, candidates []string) Info {
	log := logger.Logger()

	if len(candidates) == 0 {
		log.Debugf("No dynamic linker candidates; using OS-provided libc lookup")
		family, version := osProvidedLookup()
		return Info{Family: family, Version: version, Detector: DetectorOSProvided}
	}

	c := &classifyContext{ctx: ctx, linker: candidates[0]}
	for _, rule := range classifyRules {
		if rule.matches(c) {
			info := rule.build(c)
			log.Debugf("Libc classified as %s %s via %s (%s)",
				info.Family, info.Version, info.Detector, rule.name)
			return info
		}
	}

	log.Debugf("Linker %s yielded no usable text; using OS-provided libc lookup", c.linker)
	family, version := osProvidedLookup()
	return Info{Family: family, Version: version, SelectedLinker: c.linker, Detector: DetectorOSProvided}
}

func extractVersion(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// Well-known install locations of the libc binary itself, glibc first.
var libcGlobs = []string{
	"/usr/lib64/libc.so.6",
	"/lib64/libc.so.6",
	"/lib/*/libc.so.6",
	"/usr/lib/libc.so.6",
	"/lib/libc.so.6",
	"/lib/ld-musl-*.so*",
}

// osProvidedLookup is a swap point for tests.
var osProvidedLookup = osProvidedLibc

// osProvidedLibc inspects the installed libc binary directly, reading family
// markers and a release version out of its ELF .rodata section. musl does not
// store its version there, so musl hits report an empty version.
func osProvidedLibc() (Family, string) {
	for _, pattern := range libcGlobs {
		matches, err := filepathGlob(pattern)
		if err != nil {
			continue
		}
		for _, path := range matches {
			if family, version, ok := inspectLibcELF(path); ok {
				return family, version
			}
		}
	}
	return FamilyUnknown, ""
}

func inspectLibcELF(path string) (Family, string, bool) {
	f, err := elf.Open(path)
	if err != nil {
		return FamilyUnknown, "", false
	}
	defer f.Close()

	rodata := f.Section(".rodata")
	if rodata == nil {
		return FamilyUnknown, "", false
	}
	data, err := rodata.Data()
	if err != nil {
		return FamilyUnknown, "", false
	}

	switch {
	case bytes.Contains(data, []byte("GNU C Library")):
		return FamilyGlibc, glibcVersionFromRodata(data), true
	case bytes.Contains(data, []byte("musl")):
		return FamilyMusl, "", true
	}
	return FamilyUnknown, "", false
}

func glibcVersionFromRodata(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.Contains(line, []byte("release version")) {
			return extractVersion(glibcVersionRe, string(line))
		}
	}
	return ""
}
