package configloader

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/yaklabco/cheatfind/pkg/config"
)

// envVarPrefix is the prefix for all cheatfind environment variables.
const envVarPrefix = "CHEATFIND_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeInt
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"CORPUS_PATH": {field: "corpus_path", typ: envTypeString, description: "Directory searched for corpus files"},
	"HEIGHT":      {field: "height", typ: envTypeInt, description: "Result rows under the prompt"},
	"LIMIT":       {field: "limit", typ: envTypeInt, description: "Results kept per query"},
	"EXTENSION":   {field: "extension", typ: envTypeString, description: "Suffix marking corpus files"},
	"TLDR_URL":    {field: "tldr_url", typ: envTypeString, description: "tldr-pages archive URL"},
	"PLATFORM":    {field: "platform", typ: envTypeString, description: "tldr page folder kept next to common"},
	"COLOR":       {field: "color", typ: envTypeString, description: "Color mode: auto, always or never"},
}

// LoadFromEnv applies CHEATFIND_* overrides to cfg. Empty variables are
// ignored.
func LoadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := getenv(envVar)
		if value == "" {
			continue
		}
		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}
	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return &ValidationError{
				Field:   mapping.field,
				Value:   value,
				Message: fmt.Sprintf("invalid integer for %s: %q", envVar, value),
			}
		}
		return setIntField(cfg, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// setStringField sets a string field on the config by field name.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "corpus_path":
		cfg.CorpusPath = value
	case "extension":
		cfg.Extension = value
	case "tldr_url":
		cfg.TLDRURL = value
	case "platform":
		cfg.Platform = value
	case "color":
		cfg.Color = config.ColorMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field name.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "height":
		cfg.Height = value
	case "limit":
		cfg.Limit = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// EnvVar describes a supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
