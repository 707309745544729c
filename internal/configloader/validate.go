package configloader

import (
	"fmt"
	"strings"

	"github.com/yaklabco/cheatfind/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the invalid key (e.g., "height").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Line is the line number in the config file (if known).
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		if e.Line > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", e.FilePath, e.Line))
		} else {
			parts = append(parts, e.FilePath)
		}
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Height < 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "height",
			Value:   cfg.Height,
			Message: "height must be >= 1",
		})
	}

	if cfg.Limit < 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "limit",
			Value:   cfg.Limit,
			Message: "limit must be >= 1",
		})
	} else if cfg.Limit < cfg.Height {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "limit",
			Value:   cfg.Limit,
			Message: fmt.Sprintf("limit %d leaves %d of %d rows empty", cfg.Limit, cfg.Height-cfg.Limit, cfg.Height),
		})
	}

	if cfg.Extension == "" || !strings.HasPrefix(cfg.Extension, ".") || len(cfg.Extension) < 2 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "extension",
			Value:   cfg.Extension,
			Message: fmt.Sprintf("invalid extension %q; must start with a dot, e.g. .commands", cfg.Extension),
		})
	}

	if !cfg.Color.IsValid() {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "color",
			Value:   cfg.Color,
			Message: fmt.Sprintf("invalid color mode %q; must be one of: auto, always, never", cfg.Color),
		})
	}

	if cfg.CorpusPath == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "corpus_path",
			Message: "corpus path is empty and no data directory could be resolved",
		})
	}

	return result
}
