package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/raywall/local-gateway/pkg/config"
	"github.com/raywall/local-gateway/pkg/gateway"
	"github.com/raywall/local-gateway/pkg/invoker"
	"github.com/raywall/local-gateway/pkg/logger"
	"github.com/raywall/local-gateway/pkg/metrics"
)

var (
	configPath   string
	templatePath string

	// Variáveis injetáveis para mocking
	serverStarter = func(srv *gateway.GatewayServer) error {
		return srv.Start()
	}
)

func init() {
	// Captura dos paths via ambiente
	configPath = os.Getenv("GATEWAY_CONFIG_PATH")
	templatePath = os.Getenv("GATEWAY_TEMPLATE_PATH")
}

func main() {
	// A validação ocorre aqui para não quebrar os testes unitários
	if configPath == "" || templatePath == "" {
		log.Fatalln("FATAL: Defina GATEWAY_CONFIG_PATH e GATEWAY_TEMPLATE_PATH")
	}

	if err := run(context.Background(), configPath, templatePath); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath, tmplPath string) error {
	// 1. Configuração do servidor (host, porta, logging, invoker)
	cfg, err := config.LoadServerConfig(cfgPath)
	if err != nil {
		return err
	}

	zl := logger.Configure(cfg.Logging)

	// 2. Template de rotas normalizado (arquivo local, s3:// ou dynamodb://)
	loader := config.NewUniversalLoader()
	tmpl, err := loader.Load(ctx, tmplPath)
	if err != nil {
		return err
	}

	// 3. Tabela de rotas: construída uma vez, imutável durante o serving
	table, err := gateway.NewRouteTable(tmpl)
	if err != nil {
		return err
	}

	// 4. Backend de invocação
	var inv invoker.Invoker
	switch cfg.Invoker.Mode {
	case "http":
		inv = invoker.NewHTTPInvoker(cfg.Invoker.Endpoints, cfg.Invoker.GetTimeout())
	case "lambda":
		inv, err = invoker.NewLambdaInvoker(ctx, cfg.Invoker.Region)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("invoker desconhecido: %s", cfg.Invoker.Mode)
	}

	// 5. Métricas (Noop quando desabilitadas)
	provider, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		return err
	}

	srv := gateway.NewGatewayServer(table, inv, cfg.Host, cfg.Port, zl, provider)
	return serverStarter(srv)
}
