package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterRoleField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "server", "info")

	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server", entry["role"])
	assert.Equal(t, "hello", entry["message"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime)
}

func TestNewWithWriterLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "server", "warn")

	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	l.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriterUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "server", "chatty")

	l.Debug().Msg("dropped")
	l.Info().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNopDiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")
	assert.Empty(t, buf.String())
}

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "ctx", "info").With("request_id", "abc")

	ctx := l.WithContext(context.Background())
	FromContext(ctx).Info().Msg("from ctx")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestFromContextWithoutLoggerIsUsable(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Info().Msg("no panic")
}
