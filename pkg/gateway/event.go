package gateway

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

const (
	headerForwardedProto = "X-Forwarded-Proto"
	headerForwardedPort  = "X-Forwarded-Port"
)

// BuildEvent converte a requisição HTTP casada em um evento de invocação
// no formato proxy v1 do API Gateway.
//
// Computação pura fora da leitura do body: nenhum estado é compartilhado
// entre requisições e o evento é descartado ao fim do atendimento.
func BuildEvent(match *MatchResult, r *http.Request, port int) (events.APIGatewayProxyRequest, error) {
	event := events.APIGatewayProxyRequest{
		Resource:   match.Route.Pattern,
		Path:       r.URL.Path,
		HTTPMethod: match.Method,
	}

	// 1. Path parameters: exatamente como extraídos pelo matcher, sem coerção
	if len(match.PathParams) > 0 {
		event.PathParameters = match.PathParams
	}

	// 2. Folding de headers: multi-value preserva a ordem de aparição;
	// single-value é o join com ", " da mesma lista
	headers := make(map[string]string)
	multiHeaders := make(map[string][]string)
	for name, values := range r.Header {
		multiHeaders[name] = append([]string{}, values...)
		headers[name] = strings.Join(values, ", ")
	}

	// 3. Headers de encaminhamento, sempre injetados nos dois mapas
	headers[headerForwardedProto] = "http"
	multiHeaders[headerForwardedProto] = []string{"http"}
	headers[headerForwardedPort] = fmt.Sprintf("%d", port)
	multiHeaders[headerForwardedPort] = []string{fmt.Sprintf("%d", port)}

	event.Headers = headers
	event.MultiValueHeaders = multiHeaders

	// 4. Folding de query string: multi-value preserva todas as ocorrências
	// em ordem; single-value fica com a última
	query := r.URL.Query()
	if len(query) > 0 {
		single := make(map[string]string, len(query))
		multi := make(map[string][]string, len(query))
		for key, values := range query {
			multi[key] = append([]string{}, values...)
			single[key] = values[len(values)-1]
		}
		event.QueryStringParameters = single
		event.MultiValueQueryStringParameters = multi
	}

	// 5. Body: base64 quando o Content-Type casa com os binary media types
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, fmt.Errorf("falha na leitura do body: %w", err)
	}
	if isBinaryMediaType(r.Header.Get("Content-Type"), match.Route.BinaryMediaTypes) {
		event.Body = base64.StdEncoding.EncodeToString(body)
		event.IsBase64Encoded = true
	} else {
		event.Body = string(body)
	}

	// 6. Contexto da requisição e stage
	event.RequestContext = events.APIGatewayProxyRequestContext{
		Stage:        match.Route.Stage,
		ResourcePath: match.Route.Pattern,
		HTTPMethod:   match.Method,
		RequestID:    uuid.NewString(),
		APIID:        "local",
		RequestTime:  time.Now().UTC().Format("02/Jan/2006:15:04:05 -0700"),
		Identity: events.APIGatewayRequestIdentity{
			SourceIP: remoteIP(r),
		},
	}
	event.StageVariables = match.Route.StageVariables

	return event, nil
}

// isBinaryMediaType compara o valor primário do Content-Type (antes do ";")
// contra os padrões configurados: match exato, "tipo/*" ou "*/*".
func isBinaryMediaType(contentType string, patterns []string) bool {
	primary := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if primary == "" {
		return false
	}

	for _, pattern := range patterns {
		if pattern == "*/*" || strings.EqualFold(pattern, primary) {
			return true
		}
		if strings.HasSuffix(pattern, "/*") {
			prefix := strings.TrimSuffix(pattern, "*")
			if strings.HasPrefix(strings.ToLower(primary), strings.ToLower(prefix)) {
				return true
			}
		}
	}
	return false
}

func remoteIP(r *http.Request) string {
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx > 0 {
		return addr[:idx]
	}
	return addr
}
