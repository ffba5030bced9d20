// Package config loads the per-project configuration file that tells an
// analysis session where to find included sources, which compiler flags to
// recognize (and ignore), what packages a project depends on, and how to
// map file-type suffixes onto a parsing mode (spec.md §6 "Configuration").
//
// Configuration is an external collaborator per spec.md §1: this package
// only decodes and validates the file, it never drives analysis itself.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Dependency is one entry of a project's package dependency list.
type Dependency struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Project is the decoded shape of a project configuration file.
type Project struct {
	IncludePaths  []string          `yaml:"include_paths"`
	Dependencies  []Dependency      `yaml:"dependencies"`
	SuffixMapping map[string]string `yaml:"suffix_mapping"`
	StdlibPath    string            `yaml:"stdlib_path"`

	// RecognizedFlags are flags accepted for command-line compatibility
	// with the underlying compiler but otherwise irrelevant to analysis
	// (spec.md §6). They are recorded, never acted on.
	RecognizedFlags []string `yaml:"extra_flags"`
}

// Load reads and decodes a project configuration file at path.
//
// A missing or malformed file is a configuration error (spec.md §7
// "Configuration errors: reject the request for that buffer; other
// buffers unaffected") — callers attach the returned error to the one
// request that named this path rather than treating it as fatal.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if p.StdlibPath == "" {
		return nil, fmt.Errorf("config %s: stdlib_path is required", path)
	}
	return &p, nil
}

// SuffixFor reports the parsing mode registered for a file extension
// (including the leading dot, e.g. ".mli"), and whether one was configured.
func (p *Project) SuffixFor(suffix string) (string, bool) {
	mode, ok := p.SuffixMapping[suffix]
	return mode, ok
}

// IsRecognizedFlag reports whether flag was declared as one the underlying
// compiler accepts but analysis ignores.
func (p *Project) IsRecognizedFlag(flag string) bool {
	for _, f := range p.RecognizedFlags {
		if f == flag {
			return true
		}
	}
	return false
}
