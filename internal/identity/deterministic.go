package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// PackageUUID identifies a publish package by its canonical URL, so rebuilds
// of the same post keep the same id.
func PackageUUID(canonicalURL string) uuid.UUID {
	return UUID("go-devlog:package:" + strings.TrimSpace(canonicalURL))
}

// DigestUUID identifies a source digest by its date.
func DigestUUID(date string) uuid.UUID {
	return UUID("go-devlog:digest:" + strings.TrimSpace(date))
}
