// Package util provides utility functions for context handling and
// reflection helpers used throughout the torpedo library.
package util

import "context"

// IsCanceled checks if the context has been canceled.
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
