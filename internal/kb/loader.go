package kb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/askdocs/kbretrieve/pkg/types"
)

// Common errors
var (
	ErrSourceMissing = errors.New("knowledge base directory not found")
	ErrNoDocuments   = errors.New("no knowledge base documents found")
)

// DefaultExtensions lists the file extensions recognized as knowledge
// base documents when no explicit set is configured.
var DefaultExtensions = []string{".html", ".htm"}

// Load reads every document in dir whose extension is in extensions and
// returns them ordered by filename. Files with other extensions,
// subdirectories, and hidden files are ignored.
//
// An absent directory or a directory with zero matching files is a
// configuration error: the service must not start with an empty
// knowledge base.
func Load(dir string, extensions []string) ([]types.Document, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceMissing, dir)
		}
		return nil, fmt.Errorf("reading knowledge base directory %s: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by name, which gives the
	// deterministic enumeration order the index build relies on.
	var docs []types.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !matchesExtension(name, extensions) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", name, err)
		}

		docs = append(docs, types.Document{
			Name:    name,
			Content: string(content),
		})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s (extensions %v)", ErrNoDocuments, dir, extensions)
	}

	return docs, nil
}

// matchesExtension reports whether name ends in one of the recognized
// extensions, case-insensitively.
func matchesExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}
