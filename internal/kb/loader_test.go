package kb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile is a test helper that creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_services.html", "<html>dental services</html>")
	writeFile(t, dir, "a_clinics.html", "<html>clinic hours</html>")
	writeFile(t, dir, "notes.txt", "not indexed")
	writeFile(t, dir, "README", "no extension")
	writeFile(t, dir, ".hidden.html", "hidden file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.html"), 0o755))

	docs, err := Load(dir, nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Lexical filename order
	assert.Equal(t, "a_clinics.html", docs[0].Name)
	assert.Equal(t, "<html>clinic hours</html>", docs[0].Content)
	assert.Equal(t, "b_services.html", docs[1].Name)
	assert.Equal(t, "<html>dental services</html>", docs[1].Content)
}

func TestLoadCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.md", "# guide")
	writeFile(t, dir, "page.html", "<html></html>")

	docs, err := Load(dir, []string{".md"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "guide.md", docs[0].Name)
}

func TestLoadExtensionCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UPPER.HTML", "<html>upper</html>")

	docs, err := Load(dir, nil)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "UPPER.HTML", docs[0].Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"), nil)
		assert.ErrorIs(t, err, ErrSourceMissing)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := Load(t.TempDir(), nil)
		assert.ErrorIs(t, err, ErrNoDocuments)
	})

	t.Run("no matching extensions", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "data.json", "{}")

		_, err := Load(dir, nil)
		assert.ErrorIs(t, err, ErrNoDocuments)
	})
}
