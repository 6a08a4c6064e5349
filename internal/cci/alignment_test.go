package cci

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestClassAlignmentLogFields(t *testing.T) {
	buf := captureLogs(t)
	records, trials := twoCategorySession()
	ds, err := NewDataset(records, trials)
	require.NoError(t, err)

	aligner := NewAligner()
	aligner.Workers = 1
	_, err = aligner.ClassAlignment(context.Background(), ds, Range{Low: 1, High: 2}, []Range{{Low: 3, High: 4}})
	require.NoError(t, err)

	var sawOutClass, sawScore bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, strings.Count(line, `"time":`), 1, "duplicate time key in %s", line)

		var entry map[string]any
		require.NoError(t, sonic.UnmarshalString(line, &entry))
		if v, ok := entry["out_class"]; ok {
			sawOutClass = true
			assert.Equal(t, "[3,4]", v)
		}
		if v, ok := entry["time_step"]; ok {
			sawScore = true
			assert.Equal(t, float64(0), v)
			assert.Contains(t, entry, "cci")
			assert.IsType(t, "", entry["time"])
		}
	}
	assert.True(t, sawOutClass)
	assert.True(t, sawScore)
}
