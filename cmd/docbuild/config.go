// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docbuild/pkg/types"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"source":        "source",
	"output":        "output",
	"reference-doc": "reference_doc",
	"workdir":       "workdir",
	"strict":        "strict",
	"log-level":     "log_level",
	"report":        "report",
	"history":       "history",
	"backend":       "converter.backend",
}

// bindFlags registers defaults and binds every known flag of cmd into v.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	setDefaults(v)
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		} else if f := cmd.PersistentFlags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

func setDefaults(v *viper.Viper) {
	d := types.DefaultBuildConfig()
	v.SetDefault("source", d.Source)
	v.SetDefault("output", d.Output)
	v.SetDefault("reference_doc", d.ReferenceDoc)
	v.SetDefault("strict", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("converter.backend", string(d.Converter.Backend))
	v.SetDefault("converter.pandoc", d.Converter.PandocBin)
	v.SetDefault("converter.image", d.Converter.Image)
	v.SetDefault("converter.from", d.Converter.From)
}

// loadBuildConfig assembles and validates the build configuration from the
// merged flag, environment and file values in v.
func loadBuildConfig(v *viper.Viper) (types.BuildConfig, error) {
	cfg := types.BuildConfig{
		Source:       v.GetString("source"),
		Output:       v.GetString("output"),
		ReferenceDoc: v.GetString("reference_doc"),
		WorkDir:      v.GetString("workdir"),
		Strictness:   types.Lenient,
		Converter: types.ConverterConfig{
			Backend:   types.ConverterBackend(v.GetString("converter.backend")),
			PandocBin: v.GetString("converter.pandoc"),
			Image:     v.GetString("converter.image"),
			From:      v.GetString("converter.from"),
		},
		ReportPath:  v.GetString("report"),
		HistoryPath: v.GetString("history"),
	}
	if v.GetBool("strict") {
		cfg.Strictness = types.Strict
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
