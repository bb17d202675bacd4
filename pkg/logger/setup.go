// Package logger configura o zerolog do gateway local.
//
// O logger devolvido aqui é o logger base do processo: o servidor anexa o
// correlation-id por requisição via contexto, então todo log do caminho de
// atendimento carrega o identificador sem configuração extra.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/local-gateway/pkg/config"
	"github.com/rs/zerolog"
)

// Configure aplica o bloco logging da configuração do servidor e devolve o
// logger base.
//
// Com logging desabilitado o output vai para io.Discard — o gateway continua
// emitindo os headers de latência e correlation-id normalmente, apenas sem
// linhas de log. Nível inválido ou ausente cai em info.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	switch {
	case !cfg.Enabled:
		output = io.Discard
	case cfg.Format == "console":
		// Console "bonito" para desenvolvimento local
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	default:
		output = os.Stdout
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
