package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestPrettyHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "pretty", "info").With("component", "roster").WithGroup("req")

	log.Debug("hidden")
	require.Zero(t, buf.Len())

	log.Info("participate", "session_id", 7, slog.Group("user", "id", 3))
	out := buf.String()
	require.Contains(t, out, "participate")
	require.Contains(t, out, "component")
	require.Contains(t, out, "req.session_id")
	require.Contains(t, out, "req.user.id")
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "json", "debug").Debug("token rejected", "fault", "expired")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "token rejected", record["msg"])
	require.Equal(t, "expired", record["fault"])
}
