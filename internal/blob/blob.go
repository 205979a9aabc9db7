// Package blob stores uploaded photos on the local filesystem and hands
// back the URL path they are served under. The rest of the system treats
// the returned URL as opaque.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// Store writes photo bytes under dir and maps them to URLs below baseURL.
type Store struct {
	dir     string
	baseURL string
}

// NewStore creates dir if needed. baseURL is the public path prefix the
// photos are served under, e.g. "/photos".
func NewStore(dir, baseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating photo dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the root directory photos are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Meta names the photo after what it evidences. All fields are optional.
type Meta struct {
	TeamName     string
	LocationName string
	ChallengeID  int
}

// Put stores one photo for a team and returns its URL. Filenames are built
// from sanitized metadata so a re-upload for the same claim overwrites the
// earlier shot instead of accumulating copies.
func (s *Store) Put(teamID string, data []byte, contentType string, meta Meta) (string, error) {
	if teamID == "" {
		return "", fmt.Errorf("team id is required")
	}

	name := sanitize(meta.TeamName)
	if name == "" {
		name = "team"
	}
	if loc := sanitize(meta.LocationName); loc != "" {
		name += "_" + loc
	}
	if meta.ChallengeID != 0 {
		name += fmt.Sprintf("_ch%d", meta.ChallengeID)
	}
	name += extension(contentType)

	teamDir := filepath.Join(s.dir, sanitize(teamID))
	if err := os.MkdirAll(teamDir, 0o755); err != nil {
		return "", fmt.Errorf("creating team dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(teamDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing photo: %w", err)
	}

	return s.baseURL + "/" + sanitize(teamID) + "/" + name, nil
}

func sanitize(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
