package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "merlin.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoadDecodesProject(t *testing.T) {
	path := writeConfig(t, `
include_paths:
  - src
  - vendor/lib
dependencies:
  - name: stdlib
    path: /opt/stdlib
suffix_mapping:
  .ml: implementation
  .mli: interface
stdlib_path: /opt/stdlib
extra_flags:
  - -bin-annot
  - -strict-sequence
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.IncludePaths) != 2 || p.IncludePaths[0] != "src" {
		t.Fatalf("IncludePaths = %v", p.IncludePaths)
	}
	if p.StdlibPath != "/opt/stdlib" {
		t.Fatalf("StdlibPath = %q", p.StdlibPath)
	}
	if mode, ok := p.SuffixFor(".mli"); !ok || mode != "interface" {
		t.Fatalf("SuffixFor(.mli) = %q, %v", mode, ok)
	}
	if !p.IsRecognizedFlag("-bin-annot") {
		t.Fatal("expected -bin-annot to be a recognized flag")
	}
	if p.IsRecognizedFlag("-unknown-flag") {
		t.Fatal("did not expect -unknown-flag to be recognized")
	}
}

func TestLoadRejectsMissingStdlibPath(t *testing.T) {
	path := writeConfig(t, `include_paths: [src]`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a config missing stdlib_path")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
