// Package distro reads Linux distribution metadata from the standard
// os-release file.
package distro

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ReleaseFiles are checked in order; the first existing one wins.
var ReleaseFiles = []string{"/etc/os-release", "/usr/lib/os-release"}

// ErrNoReleaseFile is reported when no os-release file exists. Callers treat
// it as "distro unknown", not as a fatal condition.
var ErrNoReleaseFile = errors.New("no os-release file found")

// Info carries the normalized os-release fields. Keys absent from the file
// stay empty rather than erroring.
type Info struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	VersionID  string `json:"version_id,omitempty"`
	PrettyName string `json:"pretty_name,omitempty"`
	IDLike     string `json:"id_like,omitempty"`
}

// Detect reads the first available release file.
func Detect() (*Info, error) {
	for _, path := range ReleaseFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return ParseReleaseFile(path)
	}
	return nil, ErrNoReleaseFile
}

// ParseReleaseFile parses the line-oriented KEY=VALUE / KEY="VALUE" format
// of os-release, stripping surrounding double quotes from values.
func ParseReleaseFile(path string) (*Info, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	fields := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"")
		fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return &Info{
		ID:         fields["ID"],
		Name:       fields["NAME"],
		VersionID:  fields["VERSION_ID"],
		PrettyName: fields["PRETTY_NAME"],
		IDLike:     fields["ID_LIKE"],
	}, nil
}
