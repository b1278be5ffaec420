package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"prod", "PRODUCTION", "dev", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWith_AddsFieldsToEveryEntry(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("service", "Clients")

	l.Info("client created", "client_id", 4)
	l.Warn("checkpoint delete failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "client created", entries[0].Message)
	assert.Equal(t, "Clients", entries[0].ContextMap()["service"])
	assert.Equal(t, int64(4), entries[0].ContextMap()["client_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "Clients", entries[1].ContextMap()["service"])
}
