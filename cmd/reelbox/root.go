package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/app"
	"github.com/vmunix/reelbox/internal/config"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool

	// appOptions is overridden by tests to stub the media tools.
	appOptions app.Options
)

var rootCmd = &cobra.Command{
	Use:   "reelbox",
	Short: "Personal video library and player",
	Long: `reelbox - personal video library and player

Import video files into a managed library, browse and search them,
and play them back with mpv.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("reelbox {{.Version}}\n")
}

func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, path, fmt.Errorf("config: %w", err)
	}
	return cfg, path, nil
}

// openApp loads the configuration and opens the library.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts := appOptions
	if opts.Stderr == nil {
		opts.Stderr = cmd.ErrOrStderr()
	}
	return app.Open(cmd.Context(), cfg, opts)
}

// withApp runs fn against an opened app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()
	return fn(a)
}
