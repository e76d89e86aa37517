package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitBuildsUsableLogger(t *testing.T) {
	require.NoError(t, Init(true))
	assert.NotNil(t, Get(CategoryProver))
}

func TestDisableSilencesCategoryWithoutAffectingOthers(t *testing.T) {
	require.NoError(t, Init(true))
	Disable(CategoryForward)
	defer Enable(CategoryForward)

	// A Nop logger reports every level as disabled.
	assert.False(t, Get(CategoryForward).Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get(CategoryProver).Core().Enabled(zapcore.InfoLevel))
}

func TestSetLoggerAcceptsNil(t *testing.T) {
	SetLogger(nil)
	assert.NotNil(t, Get(CategoryTerm))
}

func TestTraceLogsUnderTraceCategory(t *testing.T) {
	require.NoError(t, Init(true))
	// Trace should not panic and should route through CategoryTrace.
	Trace("derived 3 facts")
	assert.True(t, Get(CategoryTrace).Core().Enabled(zapcore.DebugLevel))
}
