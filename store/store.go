// Package store persists users, tasks and groups in Postgres or SQLite.
package store

import (
	"context"
	"time"
)

const queryTimeout = 10 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}
