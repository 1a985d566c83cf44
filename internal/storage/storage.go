package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ArtifactArchive defines the interface for archiving completed program
// artifacts to object storage and handing out temporary download links.
type ArtifactArchive interface {
	// PutArtifact stores the serialized program JSON under the given key.
	PutArtifact(ctx context.Context, objectKey string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for downloading an archived program directly from storage.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteArtifact removes an archived program from storage.
	DeleteArtifact(ctx context.Context, objectKey string) error
}
