// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import "context"

// Store is an interface for recording check history.
type Store interface {
	InsertCheck(ctx context.Context, c *Check) (int64, error)
	RecentChecks(ctx context.Context, limit int) ([]Check, error)
	CheckSummary(ctx context.Context) (map[Outcome]int64, error)
	Close() error
}
