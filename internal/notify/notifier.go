// Package notify defines the notification interface and implementations for
// run-summary delivery.
package notify

import (
	"context"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

// Notifier defines the interface for announcing completed sync runs.
type Notifier interface {
	SendRunSummary(ctx context.Context, run *domain.SyncRun) error
}

// Noop is the Notifier used when notifications are disabled.
type Noop struct{}

// SendRunSummary implements Notifier.
func (Noop) SendRunSummary(context.Context, *domain.SyncRun) error { return nil }
