package invoker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPInvoker_Invoke(t *testing.T) {
	var gotPath string
	var gotEvent events.APIGatewayProxyRequest

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotEvent)
		w.Write([]byte(`{"statusCode": 200, "body": "ok"}`))
	}))
	defer backend.Close()

	inv := NewHTTPInvoker(map[string]string{"MyFunction": backend.URL}, 0)

	event := events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/hello"}
	payload, err := inv.Invoke(context.Background(), "MyFunction", event)
	require.NoError(t, err)

	assert.Equal(t, "/2015-03-31/functions/function/invocations", gotPath)
	assert.Equal(t, "/hello", gotEvent.Path)
	assert.JSONEq(t, `{"statusCode": 200, "body": "ok"}`, string(payload))
}

func TestHTTPInvoker_UnknownFunction(t *testing.T) {
	inv := NewHTTPInvoker(map[string]string{}, 0)

	_, err := inv.Invoke(context.Background(), "Ghost", events.APIGatewayProxyRequest{})
	assert.ErrorIs(t, err, ErrInvocationFailed)
}

func TestHTTPInvoker_FunctionError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// O runtime sinaliza exceção da função via header, mantendo status 200
		w.Header().Set("X-Amz-Function-Error", "Unhandled")
		w.Write([]byte(`{"errorType": "Exception", "errorMessage": "boom"}`))
	}))
	defer backend.Close()

	inv := NewHTTPInvoker(map[string]string{"Broken": backend.URL}, 0)

	_, err := inv.Invoke(context.Background(), "Broken", events.APIGatewayProxyRequest{})
	assert.ErrorIs(t, err, ErrInvocationFailed)
}

func TestHTTPInvoker_RuntimeUnavailable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	backendURL := backend.URL
	backend.Close() // derruba o runtime antes da invocação

	inv := NewHTTPInvoker(map[string]string{"Down": backendURL}, 0)

	_, err := inv.Invoke(context.Background(), "Down", events.APIGatewayProxyRequest{})
	assert.ErrorIs(t, err, ErrInvocationFailed)
}

func TestHTTPInvoker_Non200Status(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	inv := NewHTTPInvoker(map[string]string{"Flaky": backend.URL}, 0)

	_, err := inv.Invoke(context.Background(), "Flaky", events.APIGatewayProxyRequest{})
	assert.ErrorIs(t, err, ErrInvocationFailed)
}
