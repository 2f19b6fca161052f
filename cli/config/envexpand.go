// Package config handles YAML config file loading for cue-session.
package config

import (
	"os"
	"regexp"
	"strings"
)

// envRef matches ${VAR} and ${VAR:-default} references.
var envRef = regexp.MustCompile(`\$\{[A-Za-z_][A-Za-z0-9_]*(?::-[^}]*)?\}`)

// ExpandEnv substitutes ${VAR} and ${VAR:-default} references with values
// from the environment. A variable that is unset or empty takes its default
// when one is given, otherwise the empty string; missing required values
// surface later at validation (the S3 bucket check in media storage setup,
// for example) rather than here.
func ExpandEnv(input string) string {
	return envRef.ReplaceAllStringFunc(input, func(ref string) string {
		name, def, _ := strings.Cut(ref[2:len(ref)-1], ":-")
		if v := os.Getenv(name); v != "" {
			return v
		}
		return def
	})
}
