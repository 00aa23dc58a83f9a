package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress     string
		gatewayAddress string
		sessionFile    string
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress:     "localhost:8090",
				gatewayAddress: "localhost:8000",
				sessionFile:    "shopfront-session.json",
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":     "localhost:9999",
				"GATEWAY_ADDRESS": "gateway:8000",
				"SESSION_FILE":    "/tmp/session.json",
			},
			flags: []string{},
			want: want{
				runAddress:     "localhost:9999",
				gatewayAddress: "gateway:8000",
				sessionFile:    "/tmp/session.json",
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-g", "flag-gateway:8000",
				"-f", "flag-session.json",
			},
			want: want{
				runAddress:     "localhost:7777",
				gatewayAddress: "flag-gateway:8000",
				sessionFile:    "flag-session.json",
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":     "env:9000",
				"GATEWAY_ADDRESS": "env-gateway:8000",
				"SESSION_FILE":    "env-session.json",
			},
			flags: []string{
				"-a", "flag:8000",
				"-g", "flag-gateway:8000",
				"-f", "flag-session.json",
			},
			want: want{
				runAddress:     "env:9000",
				gatewayAddress: "env-gateway:8000",
				sessionFile:    "env-session.json",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.gatewayAddress, cfg.GatewayAddress)
			assert.Equal(t, tt.want.sessionFile, cfg.SessionFile)
		})
	}
}
