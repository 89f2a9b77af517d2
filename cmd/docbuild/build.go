// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docbuild/internal/console"
	"github.com/pdiddy/docbuild/internal/convert"
	"github.com/pdiddy/docbuild/internal/pipeline"
)

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadBuildConfig(viper.GetViper())
	if err != nil {
		return err
	}

	log := console.NewLogger(viper.GetString("log_level"), os.Stderr)
	log.Debug("configuration", "source", cfg.Source, "output", cfg.Output, "workdir", cfg.WorkDir,
		"strictness", cfg.Strictness, "backend", cfg.Converter.Backend)

	conv, err := convert.New(cfg.Converter)
	if err != nil {
		return err
	}
	log.Debug("converter selected", "name", conv.Name())

	b := pipeline.New(cfg, conv,
		pipeline.WithPrinter(console.NewPrinter(cmd.OutOrStdout())),
		pipeline.WithLogger(log),
	)
	_, err = b.Run(cmd.Context())
	return err
}
