package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewSlogWritesThroughCore(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := NewSlog(core)

	log.Debug("dropped")
	log.Info("schedule fired", "schedule_id", int64(7), "outcome", "completed")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "schedule fired", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(7), fields["schedule_id"])
	assert.Equal(t, "completed", fields["outcome"])
}

func TestNewLevels(t *testing.T) {
	prod, err := New("production")
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zap.DebugLevel))

	dev, err := New("development")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zap.DebugLevel))
}
