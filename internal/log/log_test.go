package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })

	require.NoError(t, Init(false))
	assert.False(t, L().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, L().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, Init(true))
	assert.True(t, L().Core().Enabled(zapcore.DebugLevel))
}
