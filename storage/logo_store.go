package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// StoredLogo is what the bucket reports back after a team logo is written.
type StoredLogo struct {
	Key  string
	URL  string
	ETag string
}

// LogoStore keeps team logos in an object bucket served from a public base URL.
// URL must not touch the network: team listings resolve every logo on read.
type LogoStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (*StoredLogo, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// LogoKey builds a fresh bucket key for a team logo. Each upload gets its own
// key so a cached URL never points at a replaced image.
func LogoKey(teamID int, filename string) string {
	return fmt.Sprintf("teams/%d/%s%s", teamID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}
