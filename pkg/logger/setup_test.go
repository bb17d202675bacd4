package logger

import (
	"testing"

	"github.com/raywall/local-gateway/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigure_Levels(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.LoggingConf
		level zerolog.Level
	}{
		{"Debug", config.LoggingConf{Enabled: true, Level: "debug", Format: "json"}, zerolog.DebugLevel},
		{"Error", config.LoggingConf{Enabled: true, Level: "error", Format: "json"}, zerolog.ErrorLevel},
		{"Default Info", config.LoggingConf{Enabled: true, Format: "json"}, zerolog.InfoLevel},
		{"Nível inválido vira Info", config.LoggingConf{Enabled: true, Level: "banana"}, zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Configure(tt.cfg)
			assert.Equal(t, tt.level, zerolog.GlobalLevel())
		})
	}
}

func TestConfigure_ConsoleFormat(t *testing.T) {
	// Apenas garante que o formato console não quebra a configuração
	logger := Configure(config.LoggingConf{Enabled: true, Level: "info", Format: "console"})
	logger.Info().Msg("console ok")
}
