package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// invokePath é o endpoint de invocação do runtime interface emulator.
const invokePath = "/2015-03-31/functions/function/invocations"

// HTTPInvoker invoca funções via runtime local (um container por função
// expondo o endpoint do runtime interface emulator).
type HTTPInvoker struct {
	// endpoints mapeia nome da função -> URL base (ex: http://127.0.0.1:9001)
	endpoints map[string]string
	client    *http.Client
}

// NewHTTPInvoker cria o invoker local. timeout zero significa sem deadline
// no client (invocações longas são esperadas).
func NewHTTPInvoker(endpoints map[string]string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
	}
}

// Invoke envia o evento serializado para o runtime da função e retorna o
// payload cru da resposta.
func (h *HTTPInvoker) Invoke(ctx context.Context, function string, event events.APIGatewayProxyRequest) ([]byte, error) {
	base, ok := h.endpoints[function]
	if !ok {
		return nil, fmt.Errorf("%w: função '%s' sem runtime configurado", ErrInvocationFailed, function)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: falha ao serializar evento: %v", ErrInvocationFailed, err)
	}

	url := strings.TrimSuffix(base, "/") + invokePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: falha na leitura da resposta: %v", ErrInvocationFailed, err)
	}

	// O runtime devolve 200 mesmo em erro de função, marcando o header
	// X-Amz-Function-Error — ambos os casos são falha de invocação
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: runtime retornou status %d", ErrInvocationFailed, resp.StatusCode)
	}
	if resp.Header.Get("X-Amz-Function-Error") != "" {
		return nil, fmt.Errorf("%w: erro de execução da função '%s'", ErrInvocationFailed, function)
	}

	return body, nil
}
