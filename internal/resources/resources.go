// Package resources loads fixture files such as challenge ciphertexts by
// logical name.
package resources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/RowanDark/cipherlab/internal/env"
)

// ErrNotFound reports that no resource exists under the requested name.
var ErrNotFound = errors.New("resource not found")

// Loader resolves names relative to Root. A name without an extension also
// matches name+".txt".
type Loader struct {
	Root string
}

// NewLoader returns a loader rooted at root, or at DefaultRoot when root is
// empty.
func NewLoader(root string) Loader {
	if root == "" {
		root = DefaultRoot()
	}
	return Loader{Root: root}
}

// DefaultRoot returns the fixture directory: $CIPHERLAB_RESOURCES (or the
// legacy $CRYPTOPALS_RESOURCES), then ~/.cipherlab/resources, then
// ~/Cryptopals/Resources when only that one exists.
func DefaultRoot() string {
	if dir, ok := env.Setting("RESOURCES"); ok {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "resources"
	}
	preferred := filepath.Join(home, ".cipherlab", "resources")
	if isDir(preferred) {
		return preferred
	}
	legacy := filepath.Join(home, "Cryptopals", "Resources")
	if isDir(legacy) {
		return legacy
	}
	return preferred
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Path returns the file backing name.
func (l Loader) Path(name string) (string, error) {
	clean := filepath.Clean(strings.TrimSpace(name))
	if clean == "." || clean == "" || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}
	candidates := []string{filepath.Join(l.Root, clean)}
	if filepath.Ext(clean) == "" {
		candidates = append(candidates, filepath.Join(l.Root, clean+".txt"))
	}
	for _, path := range candidates {
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat resource %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, name, l.Root)
}

// Load returns the full contents of name.
func (l Loader) Load(name string) (string, error) {
	path, err := l.Path(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resource %s: %w", path, err)
	}
	return string(data), nil
}

// Lines returns the non-empty lines of name with surrounding whitespace
// removed.
func (l Loader) Lines(name string) ([]string, error) {
	content, err := l.Load(name)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines, nil
}
