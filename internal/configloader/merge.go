package configloader

import "github.com/yaklabco/cheatfind/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// Zero values in override never replace values in base, so a config file
// that omits a key keeps the lower layer's value.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.CorpusPath != "" {
		result.CorpusPath = override.CorpusPath
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.Limit != 0 {
		result.Limit = override.Limit
	}
	if override.Extension != "" {
		result.Extension = override.Extension
	}
	if override.TLDRURL != "" {
		result.TLDRURL = override.TLDRURL
	}
	if override.Platform != "" {
		result.Platform = override.Platform
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	// CLI-only switches can only be turned on.
	if override.Update {
		result.Update = true
	}
	if override.CommandOnly {
		result.CommandOnly = true
	}
	if override.LogFile != "" {
		result.LogFile = override.LogFile
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
