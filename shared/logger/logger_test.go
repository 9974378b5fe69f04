package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"condo/config"
	"condo/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestSetLogLevel(t *testing.T) {
	restore(t)

	tests := []struct {
		name     string
		level    string
		expected zerolog.Level
	}{
		{name: "explicit warn", level: "warn", expected: zerolog.WarnLevel},
		{name: "explicit info", level: "info", expected: zerolog.InfoLevel},
		{name: "empty falls back to trace", level: "", expected: zerolog.TraceLevel},
		{name: "garbage falls back to trace", level: "loud", expected: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.level

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestJSONOutput(t *testing.T) {
	restore(t)

	var buf bytes.Buffer

	logger.SetOutput(&buf, "condo")
	log.Info().Str("room_id", "r1").Msg("booking reserved")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "condo", line["service"])
	assert.Equal(t, "r1", line["room_id"])
	assert.Equal(t, "booking reserved", line["message"])
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)

	logger.ErrorWithStack(errors.New("stacked failure"))

	assert.Contains(t, buf.String(), "stacked failure")
}
