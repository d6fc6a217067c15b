package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/agentsystems/model-router/config"
	"github.com/agentsystems/model-router/handler"
	"github.com/agentsystems/model-router/utils"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func newResolveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <model>",
		Short: "Print the connection a model name resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := c.router.LoadModelConnection(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(map[string]any{args[0]: rec}); err != nil {
				return fmt.Errorf("encode connection: %w", err)
			}
			return enc.Close()
		},
	}
}

func newValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <model>...",
		Short: "Check that every listed model resolves to an enabled connection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := c.router.ValidateModelDependencies(args)
			for _, name := range result.Models {
				status := "available"
				if !result.Available[name] {
					status = "unavailable"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, status)
			}
			if missing := result.Unavailable(); len(missing) > 0 {
				return fmt.Errorf("unavailable models: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the structure of the whole configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.source.Load()
			if err != nil {
				return err
			}
			if err := config.Validate(doc); err != nil {
				errs := multierr.Errors(err)
				for _, e := range errs {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", e)
				}
				return fmt.Errorf("%s: %d problem(s) found", c.source.Location(), len(errs))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d model connection(s) OK\n", c.source.Location(), len(doc.ModelConnections))
			return nil
		},
	}
}

func newServeCmd(c *cli) *cobra.Command {
	var (
		port      int
		apiKeyEnv string
		watch     bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP gateway that proxies requests by model name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			apiKey := os.Getenv(apiKeyEnv)
			if apiKey == "" {
				c.logger.Warn("No gateway API key set, requests are not authenticated", zap.String("envVar", apiKeyEnv))
			} else {
				c.logger.Info("Using gateway API key from environment variable", zap.String("envVar", apiKeyEnv), zap.String("key", utils.RedactSecret(apiKey)))
			}

			if watch {
				go func() {
					err := config.Watch(ctx, c.source.Location(), c.logger, func() { c.recheck() })
					if err != nil {
						c.logger.Error("Config watcher stopped", zap.Error(err))
					}
				}()
			}

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           handler.New(c.router, apiKey, c.logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				c.logger.Info("Starting server", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("failed to start server: %w", err)
			case <-ctx.Done():
			}

			c.logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 11411, "Listening port")
	cmd.Flags().StringVar(&apiKeyEnv, "api-key-env", "MODEL_ROUTER_API_KEY", "Environment variable holding the gateway API key")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-validate and log whenever the config file changes")
	return cmd
}

// recheck validates the config file after a change and logs the outcome.
func (c *cli) recheck() {
	doc, err := c.source.Load()
	if err != nil {
		c.logger.Error("Changed config cannot be loaded", zap.Error(err))
		return
	}
	if err := config.Validate(doc); err != nil {
		c.logger.Warn("Changed config has problems", zap.Errors("problems", multierr.Errors(err)))
		return
	}
	c.logger.Info("Changed config is valid", zap.Int("modelConnections", len(doc.ModelConnections)))
}
