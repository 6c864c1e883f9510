package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_AppliesLevel(t *testing.T) {
	logger, err := New("warn", false)
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel), "info should be filtered at warn")
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	logger, err := New("error", true)
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("chatty", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}
