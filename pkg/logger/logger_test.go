package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	lvl, ok := parseLevel("DEBUG")
	assert.True(t, ok)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	_, ok = parseLevel("")
	assert.False(t, ok)
	_, ok = parseLevel("verbose")
	assert.False(t, ok)
}

func TestPackageLoggerWritesKeyValues(t *testing.T) {
	prev := zapLogger
	defer func() { zapLogger = prev }()

	core, logs := observer.New(zapcore.DebugLevel)
	UseLogger(zap.New(core))

	Info("link prepared", "patient_id", int64(7))
	GetLogger().With("template", "reminder").Warn("slow render")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "link prepared", entries[0].Message)
		assert.Equal(t, int64(7), entries[0].ContextMap()["patient_id"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "reminder", entries[1].ContextMap()["template"])
	}
}
