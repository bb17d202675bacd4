package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/raywall/local-gateway/pkg/invoker"
	"github.com/raywall/local-gateway/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

// GatewayServer compõe o caminho de atendimento: Match -> EventBuilder ->
// Invoker -> ResponseTranslator, com a síntese de preflight CORS no meio.
//
// A tabela de rotas é o único estado compartilhado entre requisições e é
// somente-leitura após a construção; o net/http atende cada conexão em sua
// própria goroutine, então invocações lentas não atrasam as demais.
type GatewayServer struct {
	table   *RouteTable
	invoker invoker.Invoker
	host    string
	port    int
	logger  zerolog.Logger
	metrics metrics.Provider
}

// NewGatewayServer monta o servidor com suas dependências.
func NewGatewayServer(table *RouteTable, inv invoker.Invoker, host string, port int, logger zerolog.Logger, provider metrics.Provider) *GatewayServer {
	if provider == nil {
		provider = &metrics.NoopProvider{}
	}
	return &GatewayServer{
		table:   table,
		invoker: inv,
		host:    host,
		port:    port,
		logger:  logger,
		metrics: provider,
	}
}

// Start registra o handler e bloqueia servindo conexões.
func (g *GatewayServer) Start() error {
	addr := fmt.Sprintf("%s:%d", g.host, g.port)
	g.logger.Info().Str("addr", addr).Int("routes", len(g.table.Routes())).Msg("Gateway local ouvindo")

	return http.ListenAndServe(addr, g.Handler())
}

// Handler devolve o handler completo (roteamento + observabilidade).
func (g *GatewayServer) Handler() http.Handler {
	return g.observabilityMiddleware(http.HandlerFunc(g.handle))
}

// handle atende uma única requisição. Todo estado aqui é local: nenhum
// objeto por-requisição é compartilhado ou reutilizado.
func (g *GatewayServer) handle(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	// 1. Matching do path, independente do verbo
	route, params, ok := g.table.MatchPath(r.URL.Path)
	if !ok {
		WriteGatewayError(w, http.StatusForbidden, MsgMissingAuthToken)
		return
	}

	// 2. Preflight CORS sintetizado (integrações explícitas têm precedência)
	if ShouldSynthesizePreflight(route, r.Method) {
		WritePreflight(w, route.Cors)
		return
	}

	// 3. Resolução do método: verbo não declarado colapsa no mesmo 403
	verb := r.Method
	fn, declared := route.HasIntegration(verb)
	if !declared {
		WriteGatewayError(w, http.StatusForbidden, MsgMissingAuthToken)
		return
	}
	if fn == "" {
		WriteGatewayError(w, http.StatusBadGateway, MsgNoFunctionDefined)
		return
	}

	// 4. Construção do evento
	match := &MatchResult{Route: route, Method: verb, PathParams: params, Function: fn}
	event, err := BuildEvent(match, r, g.port)
	if err != nil {
		logger.Error().Err(err).Msg("Falha ao montar evento de invocação")
		WriteGatewayError(w, http.StatusBadGateway, MsgInternalError)
		return
	}

	// 5. Invocação síncrona. O contexto é desacoplado do cliente: desconexão
	// antecipada não aborta a execução em andamento
	payload, err := g.invoker.Invoke(context.WithoutCancel(r.Context()), fn, event)
	if err != nil {
		logger.Error().Err(err).Str("function", fn).Msg("Falha na invocação da função")
		WriteGatewayError(w, http.StatusBadGateway, MsgInternalError)
		return
	}

	// 6. Validação na fronteira e tradução para HTTP
	result, err := ParseResult(payload)
	if err != nil {
		if errors.Is(err, ErrMalformedResult) {
			logger.Error().Err(err).Str("function", fn).Msg("Resultado de invocação malformado")
		}
		WriteGatewayError(w, http.StatusBadGateway, MsgInternalError)
		return
	}

	WriteResult(w, result)
}

// --- MIDDLEWARE DE OBSERVABILIDADE ---

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (g *GatewayServer) observabilityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		corrID := r.Header.Get(HeaderCorrelationID)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(HeaderCorrelationID, corrID)

		logger := g.logger.With().Str("correlation_id", corrID).Logger()
		ctx := logger.WithContext(r.Context())

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		latency := time.Since(start).Milliseconds()
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", latency).
			Msg("request completed")

		tags := []string{
			fmt.Sprintf("method:%s", r.Method),
			fmt.Sprintf("status:%d", wrapper.statusCode),
		}
		g.metrics.Count("gateway.request", 1, tags)
		g.metrics.Histogram("gateway.latency_ms", float64(latency), tags)
	})
}
