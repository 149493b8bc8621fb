package export

import "fmt"

// MetadataLookupError reports that attributes for an item could not be resolved.
// It is never fatal: the exporter falls back to the raw identifier.
type MetadataLookupError struct {
	Item string
	Err  error
}

func (e *MetadataLookupError) Error() string {
	return fmt.Sprintf("metadata lookup for item %q failed: %v", e.Item, e.Err)
}

func (e *MetadataLookupError) Unwrap() error {
	return e.Err
}
