package slabJSON

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	NewSugar("unit").Infow("hello", "k", 1)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unit", logs.All()[0].LoggerName)

	r := Parse([]byte("["))
	r.Release()
	assert.Equal(t, 1, logs.FilterMessage("parse failed").Len())

	SetLogger(nil)
	assert.NotNil(t, Logger())
}

func TestNewConsoleLogger(t *testing.T) {
	logger, err := NewConsoleLogger("warn")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewConsoleLogger("loud")
	assert.Error(t, err)
}
