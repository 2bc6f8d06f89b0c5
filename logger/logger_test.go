package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "Debug", level: "debug", want: zerolog.DebugLevel},
		{name: "Upper", level: "WARN", want: zerolog.WarnLevel},
		{name: "Empty", level: "", want: zerolog.InfoLevel},
		{name: "Unknown", level: "loud", want: zerolog.InfoLevel},
	}
	for i := range testCases {
		tc := testCases[i]
		t.Run(tc.name, func(t *testing.T) {
			l := New(Config{Level: tc.level, Out: &bytes.Buffer{}})
			require.Equal(t, tc.want, l.GetLevel())
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Out: &buf})
	l.Debug().Msg("hidden")
	l.Info().Str("ticker", "AAPL").Msg("priced")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "priced", line["message"])
	require.Equal(t, "AAPL", line["ticker"])
	require.Equal(t, "info", line["level"])
	require.Contains(t, line, "time")
}
