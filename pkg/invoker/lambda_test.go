package invoker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLambdaAPI implementa LambdaAPI para os testes
type mockLambdaAPI struct {
	output *lambda.InvokeOutput
	err    error

	gotInput *lambda.InvokeInput
}

func (m *mockLambdaAPI) Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	m.gotInput = params
	return m.output, m.err
}

func TestLambdaInvoker_Invoke(t *testing.T) {
	mock := &mockLambdaAPI{
		output: &lambda.InvokeOutput{Payload: []byte(`{"statusCode": 201, "body": "created"}`)},
	}
	inv := NewLambdaInvokerWithClient(mock)

	event := events.APIGatewayProxyRequest{HTTPMethod: "POST", Path: "/items"}
	payload, err := inv.Invoke(context.Background(), "ItemsFunction", event)
	require.NoError(t, err)

	assert.JSONEq(t, `{"statusCode": 201, "body": "created"}`, string(payload))
	require.NotNil(t, mock.gotInput)
	assert.Equal(t, "ItemsFunction", *mock.gotInput.FunctionName)

	var sent events.APIGatewayProxyRequest
	require.NoError(t, json.Unmarshal(mock.gotInput.Payload, &sent))
	assert.Equal(t, "/items", sent.Path)
}

func TestLambdaInvoker_FunctionError(t *testing.T) {
	fnErr := "Unhandled"
	mock := &mockLambdaAPI{
		output: &lambda.InvokeOutput{
			Payload:       []byte(`{"errorType": "Exception"}`),
			FunctionError: &fnErr,
		},
	}
	inv := NewLambdaInvokerWithClient(mock)

	_, err := inv.Invoke(context.Background(), "Broken", events.APIGatewayProxyRequest{})
	assert.ErrorIs(t, err, ErrInvocationFailed)
}

func TestLambdaInvoker_TransportError(t *testing.T) {
	mock := &mockLambdaAPI{err: errors.New("ResourceNotFoundException")}
	inv := NewLambdaInvokerWithClient(mock)

	_, err := inv.Invoke(context.Background(), "Ghost", events.APIGatewayProxyRequest{})
	assert.ErrorIs(t, err, ErrInvocationFailed)
}
