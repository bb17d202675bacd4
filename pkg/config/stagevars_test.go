package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSSM struct {
	values map[string]string
	err    error
}

func (m *mockSSM) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	value := m.values[*params.Name]
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Value: &value}}, nil
}

type mockSecrets struct {
	values map[string]string
	err    error
}

func (m *mockSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	value := m.values[*params.SecretId]
	return &secretsmanager.GetSecretValueOutput{SecretString: &value}, nil
}

func TestStageVarResolver_Resolve(t *testing.T) {
	resolver := NewStageVarResolverWithClients(
		&mockSSM{values: map[string]string{"/app/table": "prod-table"}},
		&mockSecrets{values: map[string]string{"db-password": "s3cr3t"}},
	)

	cfg := &GatewayConfig{
		StageVariables: map[string]string{
			"TableName": "ssm:///app/table",
			"Plain":     "untouched",
		},
		Routes: []RouteDescriptor{
			{Path: "/db", StageVariables: map[string]string{"DbPass": "secretsmanager://db-password"}},
		},
	}

	require.NoError(t, resolver.Resolve(context.Background(), cfg))

	assert.Equal(t, "prod-table", cfg.StageVariables["TableName"])
	assert.Equal(t, "untouched", cfg.StageVariables["Plain"])
	assert.Equal(t, "s3cr3t", cfg.Routes[0].StageVariables["DbPass"])
}

func TestStageVarResolver_SSMError(t *testing.T) {
	resolver := NewStageVarResolverWithClients(
		&mockSSM{err: errors.New("ParameterNotFound")},
		&mockSecrets{},
	)

	cfg := &GatewayConfig{
		StageVariables: map[string]string{"Broken": "ssm:///faltando"},
	}

	err := resolver.Resolve(context.Background(), cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}

func TestStageVarResolver_NoReferencesNoClients(t *testing.T) {
	// Sem referências externas, nenhum client AWS é criado
	resolver := NewStageVarResolver()

	cfg := &GatewayConfig{
		StageVariables: map[string]string{"Plain": "value"},
		Routes:         []RouteDescriptor{{Path: "/x", StageVariables: map[string]string{"Other": "v2"}}},
	}

	require.NoError(t, resolver.Resolve(context.Background(), cfg))
	assert.Equal(t, "value", cfg.StageVariables["Plain"])
}
