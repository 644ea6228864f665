// ABOUTME: Data migration between local store backends.
// ABOUTME: Copies every key from a source KV to a destination KV.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Keys  int
	Bytes int
}

// MigrateData copies all keys from src to dst. Existing destination values for
// the same keys are overwritten; the destination should be empty beforehand.
func MigrateData(ctx context.Context, src, dst KV) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	keys, err := src.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source keys: %w", err)
	}

	for _, key := range keys {
		value, err := src.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if err := dst.Set(ctx, key, value); err != nil {
			return nil, fmt.Errorf("write %s: %w", key, err)
		}
		summary.Keys++
		summary.Bytes += len(value)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
