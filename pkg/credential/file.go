package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the credential file location relative to the installation root.
const DefaultPath = "conf/private/api_key/api_key.json"

// FileSource reads {"api_key": "..."} from a JSON file.
type FileSource struct {
	// Root is the installation root. Empty means the working directory.
	Root string

	// Path is the credential file. Relative paths are resolved against Root
	// and may not escape it.
	Path string

	// Logger receives permission warnings. Nil uses slog.Default().
	Logger *slog.Logger
}

type fileContents struct {
	APIKey *string `json:"api_key"`
}

// NewFileSource creates a file source rooted at root.
func NewFileSource(root, path string) *FileSource {
	return &FileSource{Root: root, Path: path}
}

// Name returns "file".
func (s *FileSource) Name() string { return "file" }

// Resolve returns the absolute credential file path.
func (s *FileSource) Resolve() (string, error) {
	path := s.Path
	if path == "" {
		path = DefaultPath
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	root := s.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root: %w", err)
	}
	absPath := filepath.Join(absRoot, path)
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid credential path %q: escapes root %q", path, absRoot)
	}
	return absPath, nil
}

// Load reads and validates the credential file.
func (s *FileSource) Load(ctx context.Context) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}

	path, err := s.Resolve()
	if err != nil {
		return Credential{}, &LoadError{Source: s.Name(), Location: s.Path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Credential{}, &LoadError{Source: s.Name(), Location: path, Err: ErrNotFound}
		}
		return Credential{}, &LoadError{Source: s.Name(), Location: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return Credential{}, &LoadError{Source: s.Name(), Location: path, Err: fmt.Errorf("%w: not a regular file", ErrMalformed)}
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		s.logger().Warn("credential file is readable by group or others",
			"path", path,
			"mode", fmt.Sprintf("%04o", perm),
		)
	}

	// #nosec G304 - path is resolved under the root above
	data, err := os.ReadFile(path)
	if err != nil {
		return Credential{}, &LoadError{Source: s.Name(), Location: path, Err: err}
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return Credential{}, &LoadError{Source: s.Name(), Location: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	if contents.APIKey == nil {
		return Credential{}, &LoadError{Source: s.Name(), Location: path, Err: fmt.Errorf("%w: missing api_key", ErrMalformed)}
	}

	key := strings.TrimSpace(*contents.APIKey)
	if key == "" {
		return Credential{}, &LoadError{Source: s.Name(), Location: path, Err: ErrEmpty}
	}
	return New(key), nil
}

func (s *FileSource) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
