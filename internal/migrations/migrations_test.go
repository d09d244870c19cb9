package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	v, err := Latest()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestInitSchemaCoversEveryTable(t *testing.T) {
	raw, err := FS.ReadFile("sql/00001_init.sql")
	require.NoError(t, err)
	schema := string(raw)

	up, down, found := strings.Cut(schema, "-- +goose Down")
	require.True(t, found)
	assert.Contains(t, up, "-- +goose Up")

	for _, table := range []string{
		"users", "api_keys", "platform_credentials", "platforms", "platform_metrics",
		"posts", "post_metrics", "schedules", "publish_attempts",
	} {
		assert.Contains(t, up, "CREATE TABLE "+table+" (", table)
		assert.Contains(t, down, "DROP TABLE "+table+";", table)
	}
	assert.Contains(t, up, "REFERENCES platforms (id) ON DELETE CASCADE")
}
