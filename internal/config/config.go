// Package config loads YAML configuration documents from any afs supported location.
//
// ${VAR} and ${VAR:-default} references are expanded from the environment before decoding.
package config

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// Load decodes the document at URL into target
func Load(ctx context.Context, URL string, target interface{}) error {
	return LoadWith(ctx, afs.New(), URL, target)
}

// LoadWith decodes the document at URL into target using fs
func LoadWith(ctx context.Context, fs afs.Service, URL string, target interface{}) error {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to read config %v: %w", URL, err)
	}
	if err = yaml.Unmarshal([]byte(expand(string(data))), target); err != nil {
		return fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	return nil
}

func expand(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
