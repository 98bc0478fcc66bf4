package screenshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists failure screenshots and returns a reference the dashboard
// can resolve. Implementations must tolerate concurrent saves for different
// stories.
type Store interface {
	Save(ctx context.Context, storyID uuid.UUID, data []byte) (string, error)
}

// FileStore writes screenshots under <dir>/<storyID>/<timestamp>.png.
type FileStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewFileStore creates a filesystem-backed store. When baseURL is set, the
// returned reference is baseURL-relative instead of a local path.
func NewFileStore(dir, baseURL string) *FileStore {
	return &FileStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/"), now: time.Now}
}

func (s *FileStore) Save(ctx context.Context, storyID uuid.UUID, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ts := strings.NewReplacer(":", "-", ".", "-").Replace(s.now().UTC().Format(time.RFC3339))
	rel := filepath.Join(storyID.String(), ts+".png")
	path := filepath.Join(s.dir, rel)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}

	if s.baseURL != "" {
		return s.baseURL + "/" + filepath.ToSlash(rel), nil
	}
	return path, nil
}
