package gateway

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Corpos literais devolvidos ao cliente, idênticos aos do API Gateway.
const (
	MsgMissingAuthToken  = "Missing Authentication Token"
	MsgNoFunctionDefined = "No function defined for resource method"
	MsgInternalError     = "Internal server error"
)

// ErrMalformedResult indica payload de invocação fora do formato esperado.
var ErrMalformedResult = errors.New("malformed invocation result")

// InvocationResult é a variante de sucesso do resultado da invocação,
// já validada e com os defaults aplicados.
type InvocationResult struct {
	StatusCode        int
	Headers           map[string]string
	MultiValueHeaders map[string][]string
	Body              []byte
}

// ParseResult valida o payload cru do invoker na fronteira.
//
// Regras de coerção:
//   - o payload precisa ser um objeto JSON;
//   - statusCode aceita inteiro ou string numérica; ausente vira 200;
//   - body ausente ou nulo vira o texto literal "no data"; valores JSON
//     não-string (número, objeto, lista) viram o próprio texto JSON;
//   - isBase64Encoded true decodifica o body para bytes crus.
//
// Qualquer violação retorna ErrMalformedResult (nunca propaga valor
// não tipado para a escrita da resposta).
func ParseResult(payload []byte) (*InvocationResult, error) {
	// 1. Precisa ser um objeto ("null", listas e escalares são malformados)
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(payload, &probe); err != nil || probe == nil {
		return nil, fmt.Errorf("%w: payload não é um objeto JSON", ErrMalformedResult)
	}

	var raw struct {
		StatusCode        json.RawMessage     `json:"statusCode"`
		Headers           map[string]string   `json:"headers"`
		MultiValueHeaders map[string][]string `json:"multiValueHeaders"`
		Body              json.RawMessage     `json:"body"`
		IsBase64Encoded   bool                `json:"isBase64Encoded"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
	}

	// 2. statusCode: inteiro, string numérica ou ausente (default 200)
	status, err := coerceStatusCode(raw.StatusCode)
	if err != nil {
		return nil, err
	}

	// 3. body: default literal "no data"; strings JSON usam o valor, os
	// demais tipos são serializados como texto; base64 decodificado quando
	// declarado
	body := "no data"
	if len(raw.Body) > 0 && string(raw.Body) != "null" {
		var asString string
		if err := json.Unmarshal(raw.Body, &asString); err == nil {
			body = asString
		} else {
			body = string(raw.Body)
		}
	}
	bodyBytes := []byte(body)
	if raw.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("%w: body base64 inválido: %v", ErrMalformedResult, err)
		}
		bodyBytes = decoded
	}

	return &InvocationResult{
		StatusCode:        status,
		Headers:           raw.Headers,
		MultiValueHeaders: raw.MultiValueHeaders,
		Body:              bodyBytes,
	}, nil
}

func coerceStatusCode(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return http.StatusOK, nil
	}

	var asInt int
	if err := json.Unmarshal(raw, &asInt); err == nil {
		if asInt < 100 {
			return 0, fmt.Errorf("%w: statusCode %d fora do intervalo HTTP", ErrMalformedResult, asInt)
		}
		return asInt, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		parsed, err := strconv.Atoi(strings.TrimSpace(asString))
		if err == nil && parsed >= 100 {
			return parsed, nil
		}
	}

	return 0, fmt.Errorf("%w: statusCode não coercível para inteiro", ErrMalformedResult)
}

// WriteResult escreve a resposta HTTP de uma invocação bem-formada.
//
// Regra de merge: nome presente nos dois mapas vira um único valor com os
// valores do multiValueHeaders seguidos do valor de headers, unidos por
// ", "; nome presente em um único mapa passa adiante preservando a lista
// ordenada original.
func WriteResult(w http.ResponseWriter, res *InvocationResult) {
	out := w.Header()

	for name, values := range res.MultiValueHeaders {
		canonical := http.CanonicalHeaderKey(name)
		if single, ok := lookupHeader(res.Headers, name); ok {
			merged := strings.Join(append(append([]string{}, values...), single), ", ")
			out[canonical] = []string{merged}
			continue
		}
		out[canonical] = append([]string{}, values...)
	}

	for name, value := range res.Headers {
		canonical := http.CanonicalHeaderKey(name)
		if _, done := out[canonical]; done {
			continue // já mesclado acima
		}
		out[canonical] = []string{value}
	}

	if _, ok := out["Content-Type"]; !ok {
		out.Set("Content-Type", "application/json")
	}

	w.WriteHeader(res.StatusCode)
	w.Write(res.Body)
}

// WriteGatewayError devolve um dos corpos literais de erro do gateway.
func WriteGatewayError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"message": "%s"}`, message)
}

// lookupHeader procura um nome nos headers single-value sem depender da
// capitalização usada pela função.
func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	canonical := http.CanonicalHeaderKey(name)
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) == canonical {
			return v, true
		}
	}
	return "", false
}
