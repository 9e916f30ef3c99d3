package service

import (
	"context"
	"io"
)

// AvatarStore defines the object-storage boundary for profile photos.
// Implementations store the bytes under the given key and hand back a public
// URL; no server-side resizing or validation happens beyond what the caller
// already enforced.
type AvatarStore interface {
	// Upload writes the object under key with the given content type.
	Upload(ctx context.Context, key string, contentType string, body io.Reader) error

	// PublicURL returns the publicly reachable URL for a stored key.
	PublicURL(key string) string
}
