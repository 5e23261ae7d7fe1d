package storage

import "context"

// Uploader defines the interface for storing an uploaded asset and returning
// a stable public reference. This abstraction allows swapping the mock with a
// real object store without refactoring.
type Uploader interface {
	Upload(ctx context.Context, data []byte, destinationHint string) (string, error)
}
