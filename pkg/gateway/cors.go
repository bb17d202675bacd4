package gateway

import (
	"net/http"

	"github.com/raywall/local-gateway/pkg/config"
)

// ShouldSynthesizePreflight decide se o servidor sintetiza a resposta de
// preflight para uma requisição OPTIONS.
//
// Integrações explícitas têm precedência: se a rota declara OPTIONS com uma
// função real, a invocação segue o fluxo normal. A síntese só acontece
// quando há configuração CORS (global ou da rota) e nenhuma integração
// OPTIONS de verdade.
func ShouldSynthesizePreflight(route *Route, method string) bool {
	if method != http.MethodOptions || route.Cors == nil {
		return false
	}
	fn, declared := route.HasIntegration(http.MethodOptions)
	return !declared || fn == ""
}

// WritePreflight escreve a resposta de preflight sintetizada: 200 com
// Allow-Origin sempre, Allow-Methods configurado ou com o default do
// conjunto ANY ordenado, e Allow-Headers/Max-Age apenas quando
// explicitamente configurados — nunca defaultados.
func WritePreflight(w http.ResponseWriter, cors *config.CorsConf) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", cors.AllowOrigin)

	methods := cors.AllowMethods
	if methods == "" {
		methods = SortedAnyMethods()
	}
	h.Set("Access-Control-Allow-Methods", methods)

	if cors.AllowHeaders != "" {
		h.Set("Access-Control-Allow-Headers", cors.AllowHeaders)
	}
	if cors.MaxAge != "" {
		h.Set("Access-Control-Max-Age", cors.MaxAge)
	}

	w.WriteHeader(http.StatusOK)
}
