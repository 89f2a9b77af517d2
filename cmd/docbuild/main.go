// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docbuild CLI. The root command
// builds a Word document from an annotated Markdown source; subcommands
// print the version and the build history.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docbuild/internal/console"
	"github.com/pdiddy/docbuild/internal/pipeline"
	"github.com/pdiddy/docbuild/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd builds the document.
var rootCmd = &cobra.Command{
	Use:   "docbuild",
	Short: "Build a Word document from Markdown with generated plots",
	Long: `docbuild converts an annotated Markdown document into DOCX. Plot
directives embedded as HTML comments are rendered to images first:

  <!-- plot
  kind=func2d
  file=graficas/parabola.png
  expr=x**2
  xmin=-3
  xmax=3
  -->

Every image the document references must exist before pandoc runs, so an
incomplete document is never produced.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runBuild,
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultBuildConfig()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./docbuild.yaml or ~/.config/docbuild/docbuild.yaml)")
	pf.String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	pf.String("workdir", "", "directory relative paths resolve against (default: current directory)")
	pf.String("history", "", "SQLite database recording every build")

	f := rootCmd.Flags()
	f.String("source", defaults.Source, "source Markdown document")
	f.String("output", defaults.Output, "destination Word document (DOCX)")
	f.String("reference-doc", defaults.ReferenceDoc, "Word template passed to pandoc when it exists")
	f.Bool("strict", false, "fail on malformed directives and unparseable numbers instead of using defaults")
	f.String("report", "", "write a YAML build report to this path")
	f.String("backend", string(defaults.Converter.Backend), "converter backend: auto, pandoc, or container")

	bindFlags(viper.GetViper(), rootCmd)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docbuild")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docbuild"))
		}
	}

	viper.SetEnvPrefix("DOCBUILD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		console.NewPrinter(os.Stderr).Error("%v", err)
		os.Exit(pipeline.ExitCode(err))
	}
}
