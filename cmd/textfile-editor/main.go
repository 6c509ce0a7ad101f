// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the textfile-editor CLI. Each
// subcommand lives in its own file and registers itself with rootCmd.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in PersistentPreRunE from --verbose.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

// rootCmd is the base command for the textfile-editor CLI.
var rootCmd = &cobra.Command{
	Use:   "textfile-editor",
	Short: "Extract JSON and message payloads from structured log files",
	Long: `textfile-editor views and rewrites log files. Its extract operation keeps,
for every line holding a JSON object, only the text between the first '{'
and the last '}', narrowed to the value of the message field. Lines without
a brace pair pass through unchanged, so mixed logs are safe to process.

Use view for an interactive viewer, watch to follow a file as it grows,
and share to hand a document to the browser editor as a single URL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./textfile-editor.yaml or ~/.config/textfile-editor/textfile-editor.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging on stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("textfile-editor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "textfile-editor"))
		}
	}

	viper.SetEnvPrefix("TEXTFILE_EDITOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			name := cfgFile
			if name == "" {
				name = viper.ConfigFileUsed()
			}
			fmt.Fprintf(rootCmd.ErrOrStderr(), "warning: reading config %s: %v\n", name, err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
