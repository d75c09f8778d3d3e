// Package commands implements the vra CLI command tree.
package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// JSON formatting.
	defaultJSONIndent = 2

	// Display formats for timestamps.
	dateFormat     = "2006-01-02"
	dateTimeFormat = "2006-01-02 15:04:05"
)

// Common static errors used throughout the commands package.
var (
	ErrAPINotFound               = errors.New("API not found")
	ErrAPIAlreadyExists          = errors.New("API already exists")
	ErrAPIEndpointRequired       = errors.New("API endpoint is required")
	ErrAPINameOrEndpointRequired = errors.New("API name or endpoint is required")
	ErrNoHostInURL               = errors.New("no host specified in URL")
	ErrDeleteCancelled           = errors.New("cancelled")
)

// StandardJSONRenderer encodes data as indented JSON on stdout.
func StandardJSONRenderer[T any](data T) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to JSON: %w", err)
	}

	return nil
}

// StandardYAMLRenderer encodes data as YAML on stdout.
func StandardYAMLRenderer[T any](data T) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(defaultJSONIndent)

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("encoding data to YAML: %w", err)
	}

	return nil
}

// renderStructured renders data as JSON or YAML per the output setting and
// reports whether it handled the output.
func renderStructured[T any](data T) (bool, error) {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		return true, StandardJSONRenderer(data)
	case OutputFormatYAML:
		return true, StandardYAMLRenderer(data)
	default:
		return false, nil
	}
}

func formatConfigValue(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.Format(dateTimeFormat)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}

	return t.Format(dateFormat)
}

// firstOwner returns the display value of the first resource owner.
func firstOwner(owners []vra.Principal) string {
	if len(owners) == 0 {
		return NotAvailable
	}

	if owners[0].Value != "" {
		return owners[0].Value
	}

	return owners[0].Ref
}

// confirmDeletion prompts for interactive confirmation unless force is set.
func confirmDeletion(prompt string, force bool) error {
	if force {
		return nil
	}

	fmt.Printf("%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)

	answer, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading confirmation: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return ErrDeleteCancelled
	}

	return nil
}

// parseParametersJSON decodes a --parameters flag value into a template.
func parseParametersJSON(raw string) (vra.Template, error) {
	if raw == "" {
		return nil, nil
	}

	var params vra.Template

	err := json.Unmarshal([]byte(raw), &params)
	if err != nil {
		return nil, fmt.Errorf("parsing parameters: %w", err)
	}

	return params, nil
}

// commandContext returns the context for command execution.
func commandContext() context.Context {
	return context.Background()
}
