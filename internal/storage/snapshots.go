package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/ringside/wrestling-pulse/internal/models"
)

const snapshotTimeLayout = "20060102T150405Z"

// SnapshotPrefix is the name prefix shared by every snapshot of timeframe
func SnapshotPrefix(timeframe models.Timeframe) string {
	return fmt.Sprintf("dashboard-%s-", timeframe)
}

// SnapshotName names a snapshot so that names sort by generation time
func SnapshotName(d *models.Dashboard) string {
	return SnapshotPrefix(d.Timeframe) + d.GeneratedAt.UTC().Format(snapshotTimeLayout) + ".json"
}

// SaveDashboard writes d as JSON and returns the snapshot name
func SaveDashboard(ctx context.Context, store StorageInterface, d *models.Dashboard) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dashboard: %w", err)
	}

	name := SnapshotName(d)
	if err := store.Store(ctx, name, data); err != nil {
		return "", err
	}
	return name, nil
}

// LatestDashboard loads the newest snapshot for timeframe
func LatestDashboard(ctx context.Context, store StorageInterface, timeframe models.Timeframe) (*models.Dashboard, error) {
	names, err := snapshotNames(ctx, store, timeframe)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no %s snapshot: %w", timeframe, ErrNotFound)
	}

	data, err := store.Retrieve(ctx, names[len(names)-1])
	if err != nil {
		return nil, err
	}

	var d models.Dashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &d, nil
}

// PruneSnapshots deletes all but the newest keep snapshots of timeframe
func PruneSnapshots(ctx context.Context, store StorageInterface, timeframe models.Timeframe, keep int) (int, error) {
	names, err := snapshotNames(ctx, store, timeframe)
	if err != nil {
		return 0, err
	}
	if len(names) <= keep {
		return 0, nil
	}

	removed := 0
	for _, name := range names[:len(names)-keep] {
		if err := store.Delete(ctx, name); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// SnapshotTime parses the generation time out of a snapshot name
func SnapshotTime(name string, timeframe models.Timeframe) (time.Time, error) {
	prefix := SnapshotPrefix(timeframe)
	if len(name) < len(prefix)+len(snapshotTimeLayout) {
		return time.Time{}, fmt.Errorf("not a %s snapshot: %q", timeframe, name)
	}
	return time.Parse(snapshotTimeLayout, name[len(prefix):len(prefix)+len(snapshotTimeLayout)])
}

func snapshotNames(ctx context.Context, store StorageInterface, timeframe models.Timeframe) ([]string, error) {
	names, err := store.List(ctx, SnapshotPrefix(timeframe))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
