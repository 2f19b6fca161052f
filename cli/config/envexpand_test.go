package config

import (
	"testing"
)

func TestExpandEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		input string
		want  string
	}{
		{
			name:  "set var",
			env:   map[string]string{"CUE_TEST_VAR": "hello"},
			input: "value: ${CUE_TEST_VAR}",
			want:  "value: hello",
		},
		{
			name:  "unset var expands empty",
			input: "value: ${CUE_UNSET_VAR_12345}",
			want:  "value: ",
		},
		{
			name:  "default used when unset",
			input: "value: ${CUE_UNSET_VAR_12345:-fallback}",
			want:  "value: fallback",
		},
		{
			name:  "default ignored when set",
			env:   map[string]string{"CUE_TEST_VAR": "real"},
			input: "value: ${CUE_TEST_VAR:-fallback}",
			want:  "value: real",
		},
		{
			name:  "default used when set but empty",
			env:   map[string]string{"CUE_TEST_VAR": ""},
			input: "value: ${CUE_TEST_VAR:-fallback}",
			want:  "value: fallback",
		},
		{
			name:  "multiple vars in one line",
			env:   map[string]string{"CUE_A": "alice", "CUE_B": "bob"},
			input: "${CUE_A}:${CUE_B}",
			want:  "alice:bob",
		},
		{
			name:  "no references pass through",
			input: "no variables here",
			want:  "no variables here",
		},
		{
			name: "nested in yaml document",
			env: map[string]string{
				"CUE_ENDPOINT": "https://ai.example.com",
				"CUE_TOKEN":    "secret",
			},
			input: "generation:\n  endpoint: ${CUE_ENDPOINT}\n  headers:\n    Authorization: Bearer ${CUE_TOKEN}",
			want:  "generation:\n  endpoint: https://ai.example.com\n  headers:\n    Authorization: Bearer secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := ExpandEnv(tt.input); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
