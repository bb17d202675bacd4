package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator()

	validRoute := RouteDescriptor{
		Path:     "/hello",
		Methods:  []string{"GET"},
		Function: "HelloFunction",
	}

	tests := []struct {
		name    string
		cfg     *GatewayConfig
		wantErr bool
	}{
		{
			name:    "Valid Config",
			cfg:     &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{validRoute}},
			wantErr: false,
		},
		{
			name:    "Missing Version",
			cfg:     &GatewayConfig{Routes: []RouteDescriptor{validRoute}},
			wantErr: true,
		},
		{
			name:    "No Routes",
			cfg:     &GatewayConfig{Version: "1.0"},
			wantErr: true,
		},
		{
			name: "Path Without Leading Slash",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "hello", Methods: []string{"GET"}},
			}},
			wantErr: true,
		},
		{
			name: "Invalid Method",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "/hello", Methods: []string{"FETCH"}},
			}},
			wantErr: true,
		},
		{
			name: "Duplicate Method",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "/hello", Methods: []string{"GET", "get"}},
			}},
			wantErr: true,
		},
		{
			name: "ANY Method",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "/hello", Methods: []string{"ANY"}},
			}},
			wantErr: false,
		},
		{
			name: "Greedy Segment In Trailing Position",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "/files/{proxy+}", Methods: []string{"GET"}},
			}},
			wantErr: false,
		},
		{
			name: "Greedy Segment Not Trailing",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "/files/{proxy+}/meta", Methods: []string{"GET"}},
			}},
			wantErr: true,
		},
		{
			name: "Unnamed Greedy Segment",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "/files/{+}", Methods: []string{"GET"}},
			}},
			wantErr: true,
		},
		{
			name: "Unnamed Param Segment",
			cfg: &GatewayConfig{Version: "1.0", Routes: []RouteDescriptor{
				{Path: "/files/{}", Methods: []string{"GET"}},
			}},
			wantErr: true,
		},
		{
			name: "Cors Without AllowOrigin",
			cfg: &GatewayConfig{Version: "1.0", Cors: &CorsConf{AllowHeaders: "X-Test"},
				Routes: []RouteDescriptor{validRoute}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRouteDescriptor_NormalizedPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/hello", "/hello"},
		{"/hello/", "/hello"},
		{"/hello//", "/hello"},
		{"/", "/"},
	}

	for _, tt := range tests {
		r := RouteDescriptor{Path: tt.in}
		assert.Equal(t, tt.want, r.NormalizedPath())
	}
}
