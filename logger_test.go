package munch_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KimNorgaard/go-munch"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	munch.SetLogger(zap.New(core))
	t.Cleanup(func() { munch.SetLogger(nil) })
	return logs
}

func TestLoggerDefaultsToNop(t *testing.T) {
	require.NotNil(t, munch.Logger())
	require.False(t, munch.Logger().Core().Enabled(zapcore.DebugLevel))
}

func TestLoggerRecordsCycleEvents(t *testing.T) {
	logs := observe(t)

	m := munch.New()
	m.Set("self", m)
	require.Equal(t, "Munch(self=...)", m.String())
	require.Equal(t, 1, logs.FilterMessage("rendering placeholder for recursive container").Len())

	shared := map[string]any{"a": 1}
	munch.Munchify([]any{shared, shared})
	require.Equal(t, 1, logs.FilterMessage("reusing converted node").Len())
}

func TestLoggerRecordsUnknownYAMLTags(t *testing.T) {
	logs := observe(t)

	c, err := munch.NewYAMLCodec()
	require.NoError(t, err)
	_, err = c.Load([]byte("a: !custom 5\n"))
	require.NoError(t, err)

	entries := logs.FilterMessage("ignoring unknown yaml tag").All()
	require.Len(t, entries, 1)
	require.Equal(t, "!custom", entries[0].ContextMap()["tag"])
}
