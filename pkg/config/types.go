package config

import "strings"

// MetodosANY é o conjunto completo de verbos que o sentinela ANY expande.
var MetodosANY = []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS", "PATCH"}

// GatewayConfig representa a estrutura raiz do template de rotas já
// normalizado (a saída do TemplateLoader, nunca o template CloudFormation cru).
type GatewayConfig struct {
	Version          string            `yaml:"version" validate:"required"`
	Stage            string            `yaml:"stage"`
	StageVariables   map[string]string `yaml:"stage_variables"`
	BinaryMediaTypes []string          `yaml:"binary_media_types"`
	Cors             *CorsConf         `yaml:"cors"`
	Routes           []RouteDescriptor `yaml:"routes" validate:"required,min=1,dive"`
}

// RouteDescriptor descreve uma rota declarada no template.
//
// O padrão de path aceita segmentos literais, segmentos parametrizados
// ({nome}) e no máximo um segmento greedy-proxy ({nome+}) na última posição.
type RouteDescriptor struct {
	Path             string            `yaml:"path" validate:"required,startswith=/"`
	Methods          []string          `yaml:"methods" validate:"required,min=1"`
	Function         string            `yaml:"function"` // Vazio = integração não configurada
	BinaryMediaTypes []string          `yaml:"binary_media_types"`
	Stage            string            `yaml:"stage"`
	StageVariables   map[string]string `yaml:"stage_variables"`
	Cors             *CorsConf         `yaml:"cors"`
}

// CorsConf define a configuração CORS (global ou por rota).
//
// AllowOrigin é obrigatório quando o bloco existe; os demais campos
// permanecem ausentes quando não configurados — nunca recebem default aqui
// (o default de AllowMethods é aplicado apenas na síntese do preflight).
type CorsConf struct {
	AllowOrigin  string `yaml:"allow_origin" validate:"required"`
	AllowMethods string `yaml:"allow_methods"`
	AllowHeaders string `yaml:"allow_headers"`
	MaxAge       string `yaml:"max_age"`
}

// NormalizedPath remove barras finais do padrão de path.
func (r RouteDescriptor) NormalizedPath() string {
	p := r.Path
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
