package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/openpoint/platform/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add connector owner", "add_connector_owner"},
		{"Add-Connector-Owner", "add_connector_owner"},
		{"ADD_CONNECTOR_OWNER", "add_connector_owner"},
		{"add__connector__owner", "add_connector_owner"},
		{"Add Index 123", "add_index_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	first, err := CreateMigration(dir, "add log retention", "Partition integration_logs by month")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_log_retention.up.sql"), first.UpPath)
	assert.Equal(t, filepath.Join(dir, "000001_add_log_retention.down.sql"), first.DownPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add_log_retention")
	assert.Contains(t, string(up), "Partition integration_logs by month")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")

	second, err := CreateMigration(dir, "connector tags", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "test", "test migration")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	require.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	files := fstest.MapFS{
		"000010_add_tags.up.sql":        {Data: []byte("--")},
		"000010_add_tags.down.sql":      {Data: []byte("--")},
		"000002_add_owner.up.sql":       {Data: []byte("--")},
		"000002_add_owner.down.sql":     {Data: []byte("--")},
		"000001_init_schema.up.sql":     {Data: []byte("--")},
		"000001_init_schema.down.sql":   {Data: []byte("--")},
		"README.md":                     {Data: []byte("docs")},
		"embed.go":                      {Data: []byte("package migrations")},
		"notaversion_thing.up.sql":      {Data: []byte("--")},
		"subdir.up.sql/000003_x.up.sql": {Data: []byte("--")},
	}

	got, err := ListMigrations(files)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "000001_init_schema", got[0].String())
	assert.Equal(t, "000002_add_owner", got[1].String())
	assert.Equal(t, "000010_add_tags", got[2].String())
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS("/nonexistent/path/to/migrations"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMigrations_EmbeddedSchema(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "000001_init_schema", got[0].String())
}
