package datapackage

import (
	"fmt"
	"strings"
)

// MismatchedMappingError signals that the definition and the activity mapping
// do not describe the same run: the mapping references a different identifier
// set than the definition declares, or the mapping spans more than one
// dataset.
type MismatchedMappingError struct {
	Definitions int
	Identifiers int
	Datasets    []string
}

func (e *MismatchedMappingError) Error() string {
	if len(e.Datasets) > 1 {
		return fmt.Sprintf("activity mapping spans %d datasets (%s), expected exactly one",
			len(e.Datasets), strings.Join(e.Datasets, ", "))
	}
	return fmt.Sprintf("definition declares %d identifiers but mapping references %d",
		e.Definitions, e.Identifiers)
}

// DirectoryExistsError signals an output collision: the target package
// directory already exists and overwrite was not requested. The existing
// directory is left untouched.
type DirectoryExistsError struct {
	Path string
}

func (e *DirectoryExistsError) Error() string {
	return fmt.Sprintf("directory %q already exists (pass overwrite to replace it)", e.Path)
}

// NotADirectoryError signals that a path expected to be a directory is not.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("%q exists but is not a directory", e.Path)
}

// PermissionError signals that the output root is not writable.
type PermissionError struct {
	Path string
	Err  error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("%q is not writable: %v", e.Path, e.Err)
}

func (e *PermissionError) Unwrap() error {
	return e.Err
}
