package invoker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
)

// LambdaAPI define a interface necessária do client Lambda (permite Mocking)
type LambdaAPI interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaInvoker invoca funções já publicadas na AWS, útil quando parte do
// backend não roda localmente.
type LambdaInvoker struct {
	client LambdaAPI
}

// NewLambdaInvoker inicializa o client real a partir da configuração padrão.
func NewLambdaInvoker(ctx context.Context, region string) (*LambdaInvoker, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar config AWS: %w", err)
	}

	return &LambdaInvoker{client: lambda.NewFromConfig(cfg)}, nil
}

// NewLambdaInvokerWithClient injeta um client pronto (testes).
func NewLambdaInvokerWithClient(client LambdaAPI) *LambdaInvoker {
	return &LambdaInvoker{client: client}
}

// Invoke faz uma invocação síncrona (RequestResponse) e devolve o payload cru.
func (l *LambdaInvoker) Invoke(ctx context.Context, function string, event events.APIGatewayProxyRequest) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: falha ao serializar evento: %v", ErrInvocationFailed, err)
	}

	out, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: &function,
		Payload:      payload,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}

	// FunctionError preenchido = exceção dentro da função
	if out.FunctionError != nil && *out.FunctionError != "" {
		return nil, fmt.Errorf("%w: função '%s' retornou '%s'", ErrInvocationFailed, function, *out.FunctionError)
	}

	return out.Payload, nil
}
