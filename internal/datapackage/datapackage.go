// Package datapackage persists the two artifacts of a RoW disambiguation run
// as a self-describing on-disk bundle: a datapackage.json manifest plus one
// JSON resource each for the RoW definition and the activity mapping.
package datapackage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"rower/internal/types"
)

// Resource files of a package directory.
const (
	ManifestFile   = "datapackage.json"
	DefinitionFile = "RoW_definition.json"
	MappingFile    = "activity_to_RoW_mapping.json"
)

// Resource describes one file of the package in the manifest.
type Resource struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Format      string `json:"format"`
}

// Manifest is the datapackage.json content. Resource paths are relative to
// the package directory.
type Manifest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Profile     string     `json:"profile"`
	Resources   []Resource `json:"resources"`
}

// WriteOptions controls package placement. NewName overrides the implicit
// dataset name as the package (and directory) name; you should probably not
// do this.
type WriteOptions struct {
	Root      string
	Overwrite bool
	NewName   string
}

// Write serializes the definition and the activity mapping under
// <root>/<name>/ and returns the package directory. The mapping keys are
// reduced to bare record codes; the dataset name survives only as the package
// name and in the manifest description.
//
// The root is created if missing. An existing package directory fails with
// DirectoryExistsError unless Overwrite is set, in which case it is removed
// first.
func Write(def types.RoWDefinition, mapping types.ActivityMapping, opts WriteOptions) (string, error) {
	if len(def) == 0 {
		return "", errors.New("empty RoW definition, nothing to write")
	}

	if len(mapping) == 0 {
		return "", errors.New("empty activity mapping, nothing to write")
	}
	datasets := mapping.Datasets()
	sort.Strings(datasets)
	if len(datasets) != 1 {
		return "", &MismatchedMappingError{Datasets: datasets}
	}
	ids := mapping.Identifiers()
	if len(ids) != len(def) {
		return "", &MismatchedMappingError{Definitions: len(def), Identifiers: len(ids)}
	}
	for id := range ids {
		if _, ok := def[id]; !ok {
			return "", &MismatchedMappingError{Definitions: len(def), Identifiers: len(ids)}
		}
	}

	implicit := datasets[0]
	name := opts.NewName
	if name == "" {
		name = implicit
	}
	if opts.Root == "" {
		return "", errors.New("output root directory required")
	}

	if err := ensureRoot(opts.Root); err != nil {
		return "", err
	}

	dirpath := filepath.Join(opts.Root, name)
	if info, err := os.Stat(dirpath); err == nil {
		if !info.IsDir() {
			return "", &NotADirectoryError{Path: dirpath}
		}
		if !opts.Overwrite {
			return "", &DirectoryExistsError{Path: dirpath}
		}
		if err := os.RemoveAll(dirpath); err != nil {
			return "", fmt.Errorf("failed to remove existing package %q: %w", dirpath, err)
		}
	}
	if err := os.Mkdir(dirpath, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", &PermissionError{Path: opts.Root, Err: err}
		}
		return "", fmt.Errorf("failed to create package directory: %w", err)
	}

	manifest := Manifest{
		Name:        name,
		Description: fmt.Sprintf("Dictionaries containing details about RoWs for database %s", implicit),
		Profile:     "data-package",
		Resources: []Resource{
			{
				Name:        "RoW definition dict",
				Path:        DefinitionFile,
				Description: "Dictionary with specific RoWs as keys and list of excluded geographies as value.",
				Format:      "json",
			},
			{
				Name:        "Activity to RoW mapping dict",
				Path:        MappingFile,
				Description: "Dictionary mapping activity codes to specific RoWs.",
				Format:      "json",
			},
		},
	}

	if err := writeJSON(filepath.Join(dirpath, ManifestFile), manifest); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dirpath, DefinitionFile), normalize(def)); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dirpath, MappingFile), mapping.Codes()); err != nil {
		return "", err
	}
	return dirpath, nil
}

// Read loads a package directory back into memory. The activity mapping comes
// back in its on-disk, codes-only form.
func Read(dir string) (*Manifest, types.RoWDefinition, map[string]string, error) {
	var manifest Manifest
	if err := readJSON(filepath.Join(dir, ManifestFile), &manifest); err != nil {
		return nil, nil, nil, err
	}
	def := make(types.RoWDefinition)
	if err := readJSON(filepath.Join(dir, DefinitionFile), &def); err != nil {
		return nil, nil, nil, err
	}
	mapping := make(map[string]string)
	if err := readJSON(filepath.Join(dir, MappingFile), &mapping); err != nil {
		return nil, nil, nil, err
	}
	return &manifest, def, mapping, nil
}

// ensureRoot creates the root if missing and verifies it is a writable
// directory.
func ensureRoot(root string) error {
	info, err := os.Stat(root)
	switch {
	case err == nil:
		if !info.IsDir() {
			return &NotADirectoryError{Path: root}
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(root, 0755); err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return &PermissionError{Path: root, Err: err}
			}
			return fmt.Errorf("failed to create output root: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("failed to stat output root: %w", err)
	}

	// Probe writability instead of inspecting mode bits, which lie under
	// ACLs and on some filesystems.
	probe, err := os.CreateTemp(root, ".rower-probe-*")
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return &PermissionError{Path: root, Err: err}
		}
		return fmt.Errorf("failed to probe output root: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// normalize replaces nil geography lists with empty ones so degenerate RoWs
// serialize as [] rather than null.
func normalize(def types.RoWDefinition) types.RoWDefinition {
	out := make(types.RoWDefinition, len(def))
	for id, geos := range def {
		if geos == nil {
			geos = []string{}
		}
		out[id] = geos
	}
	return out
}

// writeJSON writes indented UTF-8 JSON with HTML escaping disabled so
// geography names in non-Latin scripts round-trip verbatim. Map keys are
// emitted in sorted order, which keeps output byte-stable.
func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
