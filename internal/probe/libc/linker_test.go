package libc

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestRankLinkersArchFirstThenLength(t *testing.T) {
	paths := []string{
		"/lib/x86_64-linux-gnu/ld-linux-x86-64.so.2",
		"/lib64/ld-linux-x86-64.so.2",
		"/lib/ld-musl-x86_64.so.1",
	}
	rankLinkers(paths, "x86_64")

	want := []string{
		"/lib/ld-musl-x86_64.so.1",
		"/lib/x86_64-linux-gnu/ld-linux-x86-64.so.2",
		"/lib64/ld-linux-x86-64.so.2",
	}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("rank order mismatch:\n got %v\nwant %v", paths, want)
	}
}

func TestRankLinkersDeterministic(t *testing.T) {
	base := []string{
		"/lib64/ld-linux-x86-64.so.2",
		"/lib/ld-linux.so.2",
		"/lib/x86_64-linux-gnu/ld-linux-x86-64.so.2",
		"/lib/ld-musl-x86_64.so.1",
	}

	first := append([]string(nil), base...)
	rankLinkers(first, "x86_64")
	for i := 0; i < 10; i++ {
		again := append([]string(nil), base...)
		rankLinkers(again, "x86_64")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking not deterministic: %v vs %v", first, again)
		}
	}
}

func TestRankLinkersNoMachine(t *testing.T) {
	paths := []string{
		"/lib/x86_64-linux-gnu/ld-linux-x86-64.so.2",
		"/lib/ld-linux.so.2",
	}
	rankLinkers(paths, "")
	if paths[0] != "/lib/ld-linux.so.2" {
		t.Errorf("with no machine string, shorter path should rank first, got %v", paths)
	}
}

func TestFindLinkersFiltersAndDedupes(t *testing.T) {
	dir := t.TempDir()

	executable := filepath.Join(dir, "ld-linux-x86-64.so.2")
	if err := os.WriteFile(executable, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	plain := filepath.Join(dir, "ld-plain.so.1")
	if err := os.WriteFile(plain, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	origGlob := filepathGlob
	defer func() { filepathGlob = origGlob }()
	filepathGlob = func(pattern string) ([]string, error) {
		// Every pattern reports the same matches to exercise deduplication.
		return []string{executable, plain}, nil
	}

	got := FindLinkers("x86_64")
	want := []string{executable}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindLinkers = %v, want %v", got, want)
	}
}

func TestFindLinkersEmptyIsValid(t *testing.T) {
	origGlob := filepathGlob
	defer func() { filepathGlob = origGlob }()
	filepathGlob = func(pattern string) ([]string, error) {
		return nil, nil
	}

	if got := FindLinkers("x86_64"); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}
