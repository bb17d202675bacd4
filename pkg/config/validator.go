package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *GatewayConfig) error {
	// 1. Validação Estrutural (Tags do struct: required, startswith, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Field(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica (Regras do padrão de path e métodos)
	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *GatewayConfig) error {
	validMethods := map[string]bool{"ANY": true}
	for _, m := range MetodosANY {
		validMethods[m] = true
	}

	for _, route := range cfg.Routes {
		// 1. Métodos precisam ser verbos conhecidos (ou ANY); sem duplicatas
		seen := make(map[string]bool)
		for _, m := range route.Methods {
			verb := strings.ToUpper(m)
			if !validMethods[verb] {
				return fmt.Errorf("rota '%s': método HTTP inválido '%s'", route.Path, m)
			}
			if seen[verb] {
				return fmt.Errorf("rota '%s': método duplicado '%s'", route.Path, verb)
			}
			seen[verb] = true
		}

		// 2. Segmento greedy-proxy ({nome+}) só pode existir uma vez, na última posição
		segments := strings.Split(strings.Trim(route.NormalizedPath(), "/"), "/")
		for i, seg := range segments {
			if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "+}") {
				continue
			}
			if i != len(segments)-1 {
				return fmt.Errorf("rota '%s': segmento greedy '%s' precisa ser o último do path", route.Path, seg)
			}
			if len(seg) <= len("{+}") {
				return fmt.Errorf("rota '%s': segmento greedy sem nome", route.Path)
			}
		}

		// 3. Segmentos parametrizados precisam de nome
		for _, seg := range segments {
			if seg == "{}" {
				return fmt.Errorf("rota '%s': segmento parametrizado sem nome", route.Path)
			}
		}
	}

	return nil
}
