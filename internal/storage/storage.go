package storage

import "context"

// Storage is the persistence surface the pipeline depends on: the daily
// usage counter plus the two read-only vocabulary tables owned by the
// rest of the product.
type Storage interface {
	// GetUsage returns the usage count for the given YYYY-MM-DD date.
	// A missing row is not an error; it reads as zero.
	GetUsage(ctx context.Context, date string) (int, error)

	// IncrementUsage atomically increments the counter for the given
	// date, creating the row if absent, and returns the new count.
	IncrementUsage(ctx context.Context, date string) (int, error)

	// ListEmployers returns the distinct active employer names from the
	// job-listing table.
	ListEmployers(ctx context.Context) ([]string, error)

	// ListResourceCategories returns the distinct category labels in use
	// by the resources table.
	ListResourceCategories(ctx context.Context) ([]string, error)

	Close() error
}
