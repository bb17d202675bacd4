package config

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)

type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// StageVarResolver resolve referências externas em valores de stage variables.
//
// Valores no formato "ssm://caminho" ou "secretsmanager://id" são buscados
// nos serviços correspondentes no momento do load; qualquer outro valor
// passa adiante sem alteração.
type StageVarResolver struct {
	ssmClient     SSMClient
	secretsClient SecretsClient
}

// NewStageVarResolver cria um resolver com clients lazy (inicializados na
// primeira referência encontrada, para não exigir credenciais AWS em
// templates puramente locais).
func NewStageVarResolver() *StageVarResolver {
	return &StageVarResolver{}
}

// NewStageVarResolverWithClients injeta clients prontos (testes).
func NewStageVarResolverWithClients(ssmClient SSMClient, secretsClient SecretsClient) *StageVarResolver {
	return &StageVarResolver{ssmClient: ssmClient, secretsClient: secretsClient}
}

// Resolve percorre as stage variables globais e por rota.
func (sr *StageVarResolver) Resolve(ctx context.Context, cfg *GatewayConfig) error {
	if err := sr.resolveMap(ctx, cfg.StageVariables); err != nil {
		return err
	}
	for i := range cfg.Routes {
		if err := sr.resolveMap(ctx, cfg.Routes[i].StageVariables); err != nil {
			return fmt.Errorf("rota '%s': %w", cfg.Routes[i].Path, err)
		}
	}
	return nil
}

func (sr *StageVarResolver) resolveMap(ctx context.Context, vars map[string]string) error {
	for key, value := range vars {
		switch {
		case strings.HasPrefix(value, "ssm://"):
			resolved, err := sr.fromSSM(ctx, strings.TrimPrefix(value, "ssm://"))
			if err != nil {
				return fmt.Errorf("variável '%s': %w", key, err)
			}
			vars[key] = resolved

		case strings.HasPrefix(value, "secretsmanager://"):
			resolved, err := sr.fromSecretsManager(ctx, strings.TrimPrefix(value, "secretsmanager://"))
			if err != nil {
				return fmt.Errorf("variável '%s': %w", key, err)
			}
			vars[key] = resolved
		}
	}
	return nil
}

func (sr *StageVarResolver) fromSSM(ctx context.Context, path string) (string, error) {
	if sr.ssmClient == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return "", fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		sr.ssmClient = ssm.NewFromConfig(cfg)
	}

	decrypt := true
	out, err := sr.ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &path,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter: %w", err)
	}
	return *out.Parameter.Value, nil
}

func (sr *StageVarResolver) fromSecretsManager(ctx context.Context, secretID string) (string, error) {
	if sr.secretsClient == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return "", fmt.Errorf("falha ao carregar config AWS: %w", err)
		}
		sr.secretsClient = secretsmanager.NewFromConfig(cfg)
	}

	out, err := sr.secretsClient.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager: %w", err)
	}
	return *out.SecretString, nil
}
