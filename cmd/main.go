package main

import (
	"fmt"
	"io"
	"os"

	"github.com/agentsystems/model-router/config"
	"github.com/agentsystems/model-router/logging"
	"github.com/agentsystems/model-router/router"
	"github.com/agentsystems/model-router/strategy"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli holds the state shared by every subcommand.
type cli struct {
	configFile string
	envFiles   []string
	logLevel   string

	logger *zap.Logger
	source config.Source
	router *router.Router
}

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run builds the command tree and executes it with args.
func run(out io.Writer, args []string) error {
	root := newRootCmd(&cli{})
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "model-router",
		Short: "Resolve agent model names to provider connections",
		Long: `model-router reads model connections from an agentsystems config file and
resolves logical model names to the hosting provider that serves them.

Config: ./agentsystems-config.yml (override with --config)`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", config.DefaultPath, "Path to the configuration file")
	root.PersistentFlags().StringSliceVar(&c.envFiles, "env-file", nil, "Load environment variables from these files (default .env)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "define the log level: debug, info, warn, error, dpanic, panic, fatal")

	root.AddCommand(
		newResolveCmd(c),
		newValidateCmd(c),
		newCheckCmd(c),
		newServeCmd(c),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	logger, err := logging.NewLogger(c.logLevel)
	if err != nil {
		return err
	}
	c.logger = logger

	config.LoadEnv(logger, c.envFiles...)

	if c.configFile == config.DefaultPath {
		c.router = router.Default(logger)
	} else {
		c.router = router.New(config.NewFileSource(c.configFile, logger), strategy.Default(logger), logger)
	}
	c.source = c.router.Source()
	return nil
}
