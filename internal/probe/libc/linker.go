package libc

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Glob patterns covering the places Linux distributions install the dynamic
// loader: flat /lib and /lib64 layouts plus multi-arch /lib/<triplet>/
// layouts, for glibc (ld-linux*), musl (ld-musl-*) and generic ld-* names.
var linkerGlobs = []string{
	"/lib*/ld-linux*.so*",
	"/lib/*/ld-linux*.so*",
	"/lib*/ld-*.so*",
	"/lib/*/ld-*.so*",
	"/lib*/ld-musl-*.so*",
	"/lib/*/ld-musl-*.so*",
}

// Package-level function variables for dependency injection in tests.
var (
	filepathGlob = filepath.Glob
	osStat       = os.Stat
)

// FindLinkers returns candidate dynamic-linker executables, most plausible
// first. machine is the host architecture string (uname -m); candidates whose
// path mentions it rank ahead of generic ones, shorter paths ahead of longer.
// An empty result means no linker was found and is not an error.
func FindLinkers(machine string) []string {
	seen := make(map[string]bool)
	var found []string

	for _, pattern := range linkerGlobs {
		matches, err := filepathGlob(pattern)
		if err != nil {
			continue
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true
			if !isExecutableFile(path) {
				continue
			}
			found = append(found, path)
		}
	}

	rankLinkers(found, machine)
	return found
}

// rankLinkers sorts candidates in place: architecture-specific paths first,
// then shorter paths. The sort is stable so equal keys keep glob order.
func rankLinkers(paths []string, machine string) {
	sort.SliceStable(paths, func(i, j int) bool {
		ri, rj := archRank(paths[i], machine), archRank(paths[j], machine)
		if ri != rj {
			return ri < rj
		}
		return len(paths[i]) < len(paths[j])
	})
}

func archRank(path, machine string) int {
	if machine != "" && strings.Contains(path, machine) {
		return 0
	}
	return 1
}

func isExecutableFile(path string) bool {
	info, err := osStat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
