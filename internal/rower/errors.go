package rower

import "fmt"

// EmptyDatasetError signals that a dataset contains zero records.
type EmptyDatasetError struct {
	Dataset string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("dataset %q contains no records", e.Dataset)
}

// NoRoWFoundError signals that no group in the dataset contains a record with
// the RoW sentinel location. Terminal for the run, never retried.
type NoRoWFoundError struct {
	Dataset string
	Groups  int
}

func (e *NoRoWFoundError) Error() string {
	return fmt.Sprintf("no RoW locations found in dataset %q (%d groups examined)", e.Dataset, e.Groups)
}
