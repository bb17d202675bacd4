package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/raywall/local-gateway/pkg/config"
)

var (
	// ErrRouteNotMatched cobre tanto path desconhecido quanto path conhecido
	// com verbo não declarado — o API Gateway não distingue os dois casos.
	ErrRouteNotMatched = errors.New("route not matched")

	// ErrIntegrationNotConfigured indica rota casada sem função vinculada.
	ErrIntegrationNotConfigured = errors.New("integration not configured")
)

// Route é uma entrada imutável da tabela: um padrão de path com o mapa
// verbo -> função resultante do fold dos descritores.
type Route struct {
	// Pattern é o padrão normalizado, na forma declarada ({nome}, {nome+}).
	Pattern string
	// Methods mapeia verbo -> nome da função. A presença da chave indica
	// verbo declarado; valor vazio indica integração não configurada.
	Methods map[string]string
	// BinaryMediaTypes agrega os padrões globais e os da rota.
	BinaryMediaTypes []string
	Stage            string
	StageVariables   map[string]string
	// Cors já resolvido no build: o bloco da rota substitui integralmente
	// o global quando presente.
	Cors *config.CorsConf
}

// HasIntegration informa se o verbo está declarado e o nome da função.
func (r *Route) HasIntegration(method string) (string, bool) {
	fn, ok := r.Methods[strings.ToUpper(method)]
	return fn, ok
}

// MatchResult é o resultado de um casamento bem-sucedido.
type MatchResult struct {
	Route      *Route
	Method     string
	PathParams map[string]string
	Function   string
}

// RouteTable indexa as rotas para matching. Construída uma única vez antes
// do servidor aceitar conexões e somente lida depois disso — segura para
// qualquer número de leituras concorrentes sem lock.
type RouteTable struct {
	routes []*Route
	router *mux.Router
	byName map[string]*Route
}

// classes de precedência de um padrão de path
const (
	classLiteral = iota
	classParam
	classGreedy
)

// NewRouteTable constrói a tabela a partir do template normalizado.
//
// O fold dos descritores é feito com chave (path, verbo), expandindo ANY
// antes: o último descritor declarado para uma mesma chave sobrescreve o
// anterior (overwrite, nunca merge). O registro no mux segue a ordem de
// precedência literal > parametrizado > greedy-proxy; dentro de uma classe
// a ordem de fold é invertida para que o último declarado vença empates.
func NewRouteTable(cfg *config.GatewayConfig) (*RouteTable, error) {
	byPath := make(map[string]*Route)
	var folded []*Route

	for _, desc := range cfg.Routes {
		path := desc.NormalizedPath()

		route, ok := byPath[path]
		if !ok {
			route = &Route{
				Pattern: path,
				Methods: make(map[string]string),
			}
			byPath[path] = route
			folded = append(folded, route)
		}

		// 1. Expande ANY e sobrescreve (path, verbo) na ordem dos descritores
		for _, m := range expandMethods(desc.Methods) {
			route.Methods[m] = desc.Function
		}

		// 2. Metadados: o último descritor do path prevalece
		route.BinaryMediaTypes = mergeBinaryTypes(cfg.BinaryMediaTypes, desc.BinaryMediaTypes)
		route.Stage = firstNonEmpty(desc.Stage, cfg.Stage)
		route.StageVariables = firstNonEmptyMap(desc.StageVariables, cfg.StageVariables)
		route.Cors = desc.Cors
		if route.Cors == nil {
			route.Cors = cfg.Cors
		}
	}

	table := &RouteTable{
		routes: folded,
		router: mux.NewRouter(),
		byName: make(map[string]*Route),
	}

	// 3. Registro em ordem de precedência; dentro da classe, fold invertido
	idx := 0
	for _, class := range []int{classLiteral, classParam, classGreedy} {
		for i := len(folded) - 1; i >= 0; i-- {
			route := folded[i]
			if patternClass(route.Pattern) != class {
				continue
			}
			for _, muxPath := range muxPaths(route.Pattern) {
				name := fmt.Sprintf("route-%d", idx)
				idx++
				table.router.NewRoute().Name(name).Path(muxPath)
				table.byName[name] = route
			}
		}
	}

	return table, nil
}

// Match resolve método+path contra a tabela. Leitura pura, sem efeitos
// colaterais, segura sob invocação concorrente ilimitada.
func (t *RouteTable) Match(method, path string) (*MatchResult, error) {
	route, params, ok := t.MatchPath(path)
	if !ok {
		return nil, ErrRouteNotMatched
	}

	verb := strings.ToUpper(method)
	fn, declared := route.HasIntegration(verb)
	if !declared {
		return nil, ErrRouteNotMatched
	}

	result := &MatchResult{
		Route:      route,
		Method:     verb,
		PathParams: params,
		Function:   fn,
	}
	if fn == "" {
		return result, ErrIntegrationNotConfigured
	}
	return result, nil
}

// MatchPath casa apenas o path, ignorando o método. Usado pelo servidor
// para decidir a síntese de preflight CORS quando o verbo não foi declarado.
func (t *RouteTable) MatchPath(path string) (*Route, map[string]string, bool) {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}

	var m mux.RouteMatch
	if !t.router.Match(req, &m) || m.Route == nil {
		return nil, nil, false
	}

	route, ok := t.byName[m.Route.GetName()]
	if !ok {
		return nil, nil, false
	}

	params := make(map[string]string, len(m.Vars))
	for k, v := range m.Vars {
		params[k] = v
	}
	// A rota extra de prefixo do greedy não captura a variável: garante a
	// entrada com remainder vazio
	for _, name := range paramNames(route.Pattern) {
		if _, ok := params[name]; !ok {
			params[name] = ""
		}
	}

	return route, params, true
}

// Routes expõe a coleção imutável (ordem de fold), útil para logging.
func (t *RouteTable) Routes() []*Route {
	return t.routes
}

// --- helpers de construção ---

func expandMethods(methods []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range methods {
		verb := strings.ToUpper(m)
		if verb == "ANY" {
			for _, v := range config.MetodosANY {
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
			continue
		}
		if !seen[verb] {
			seen[verb] = true
			out = append(out, verb)
		}
	}
	return out
}

func patternClass(pattern string) int {
	if strings.Contains(pattern, "+}") {
		return classGreedy
	}
	if strings.Contains(pattern, "{") {
		return classParam
	}
	return classLiteral
}

// muxPaths converte o padrão declarado para os paths do gorilla/mux.
// O segmento greedy {nome+} vira {nome:.*}; rotas greedy ganham também o
// prefixo literal puro, para aceitar remainder vazio sem a barra final.
func muxPaths(pattern string) []string {
	if !strings.Contains(pattern, "+}") {
		return []string{pattern}
	}

	idx := strings.LastIndex(pattern, "/{")
	prefix := pattern[:idx]
	segment := pattern[idx+2 : len(pattern)-2] // nome sem "{" e "+}"

	greedy := fmt.Sprintf("%s/{%s:.*}", prefix, segment)
	if prefix == "" {
		// Greedy na raiz: /{nome:.*} já casa "/" com remainder vazio
		return []string{greedy}
	}
	return []string{greedy, prefix}
}

func paramNames(pattern string) []string {
	var names []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			name := strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
			names = append(names, strings.TrimSuffix(name, "+"))
		}
	}
	return names
}

func mergeBinaryTypes(global, local []string) []string {
	if len(local) == 0 {
		return global
	}
	if len(global) == 0 {
		return local
	}
	seen := make(map[string]bool)
	var out []string
	for _, t := range append(append([]string{}, global...), local...) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyMap(values ...map[string]string) map[string]string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}

// SortedAnyMethods é o conjunto ANY ordenado e separado por vírgula, usado
// como default do Access-Control-Allow-Methods.
func SortedAnyMethods() string {
	methods := append([]string{}, config.MetodosANY...)
	sort.Strings(methods)
	return strings.Join(methods, ",")
}
