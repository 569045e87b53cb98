package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/projectvantage/vantage/internal/config"
	"github.com/projectvantage/vantage/internal/view"
	"github.com/projectvantage/vantage/pkg/logger"
)

// errReported marks a failure whose explanation was already printed.
var errReported = errors.New("reported")

type rootFlags struct {
	Config   string
	BaseURL  string
	LogLevel string
}

// cli is the state shared by every command once flags and config are loaded.
type cli struct {
	in   io.Reader
	out  io.Writer
	cfg  *config.Config
	log  logger.Logger
	term *view.Terminal
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var f rootFlags
	c := &cli{in: in, out: out, term: view.NewTerminal(out)}

	root := &cobra.Command{
		Use:           "vantage",
		Short:         "Client and console for the Project Vantage network diagnostics backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load configuration (defaults -> file -> .env -> env), then flags win.
			cfg, err := config.Load(cmd.Context(), f.Config)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if f.BaseURL != "" {
				cfg.BaseURL = strings.TrimSpace(f.BaseURL)
			}
			if f.LogLevel != "" {
				cfg.LogLevel = f.LogLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := logger.InitWithWriter(errOut, cfg.LogFormat); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			c.log = logger.Get()
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				c.log.Warn(cmd.Context(), "invalid log_level; falling back to info",
					logger.String("log_level", cfg.LogLevel), logger.Error(err))
				_ = logger.SetLevelString("info")
			}
			c.cfg = cfg
			return nil
		},
	}

	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	// This set of flags propagates
	cfgFlags := pflag.NewFlagSet("Configuration", pflag.ExitOnError)
	cfgFlags.StringVar(&f.Config, "config", "", "Path to a YAML configuration file")
	cfgFlags.StringVar(&f.BaseURL, "base-url", "", "Backend origin, overrides base_url")
	cfgFlags.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().AddFlagSet(cfgFlags)

	root.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "tools", Title: "Diagnostics:"},
	)
	root.AddCommand(
		c.loginCommand(),
		c.signupCommand(),
		c.logoutCommand(),
		c.sessionCommand(),
		c.dashboardCommand(),
	)
	root.AddCommand(c.toolCommands()...)
	root.AddCommand(c.serveCommand())
	return root
}
