package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/ru-menu/internal/config"
	"github.com/pfrederiksen/ru-menu/internal/logger"
	"github.com/pfrederiksen/ru-menu/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app carries state shared by all subcommands of one invocation
type app struct {
	v   *viper.Viper
	cfg *config.Config

	configFile string
	envFile    string
	logFormat  string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "ru-menu",
		Short: "Daily menu of the UFC university restaurant",
		Long: `Fetches the daily menu of the UFC university restaurant (RU), formats it
for Telegram and delivers it on service days.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "Config file (default: ./ru-menu.yaml or ~/.config/ru-menu/ru-menu.yaml)")
	pf.StringVar(&a.envFile, "env-file", ".env", "Load environment variables from this file when present")
	pf.StringVar(&a.logFormat, "log-format", string(logger.FormatJSON), "Log format: json or text")
	pf.String("data-dir", config.DefaultDataDir, "Data directory for the menu cache")
	pf.String("menu-url", scraper.MenuURL, "Menu page URL")
	pf.String("timezone", config.DefaultTimezone, "Timezone used to decide what \"today\" is")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")

	a.bindFlags(cmd, map[string]string{
		"data_dir":  "data-dir",
		"menu_url":  "menu-url",
		"timezone":  "timezone",
		"log_level": "log-level",
	}, true)

	cmd.AddCommand(
		newShowCmd(a),
		newSendCmd(a),
		newBotCmd(a),
		newServeCmd(a),
	)

	return cmd
}

// bindFlags binds viper keys to the named flags of cmd
func (a *app) bindFlags(cmd *cobra.Command, keys map[string]string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	for key, name := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

// setup loads configuration and installs the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.envFile != "" {
		if err := config.LoadDotEnv(a.envFile); err != nil {
			return err
		}
	}

	cfg, err := config.Load(a.v, a.configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	format := logger.Format(a.logFormat)
	if format != logger.FormatJSON && format != logger.FormatText {
		return fmt.Errorf("invalid log format: %s (must be 'json' or 'text')", a.logFormat)
	}
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), format, cmd.ErrOrStderr()))

	logger.Debug("Configuration loaded", logger.Fields{
		"config":   a.v.ConfigFileUsed(),
		"data_dir": cfg.DataDir,
		"menu_url": cfg.MenuURL,
		"timezone": cfg.Timezone,
	})

	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
