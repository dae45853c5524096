package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"anticafe/internal/bootstrap"
	"anticafe/internal/platform/config"
	"anticafe/internal/platform/logging"
	"anticafe/internal/replay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "anticafe",
		Short:         "Anti-cafe table occupancy and billing",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultFile, "config file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newReplayCmd(opts))
	root.AddCommand(newJournalCmd(opts))
	root.AddCommand(newConfigCmd(opts))
	return root
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}
	path := config.ResolvePath(opts.configPath, cmd.Flags().Changed("config"))
	return config.Load(path)
}

// loadApp wires the venue with logs going to w.
func loadApp(cmd *cobra.Command, opts *rootOptions, w io.Writer) (*bootstrap.App, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(*cfg, logging.New(cfg.Logging, w))
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the table grid terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logFile, err := logging.OpenFile(cfg.Logging)
			if err != nil {
				return err
			}
			defer logFile.Close()

			app, err := bootstrap.New(*cfg, logging.New(cfg.Logging, logFile))
			if err != nil {
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the status API and metrics without the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTP.Addr = addr
			}
			if cfg.HTTP.Addr == "" {
				return fmt.Errorf("http.addr is empty; set it in the config or pass --addr")
			}
			app, err := bootstrap.New(*cfg, logging.New(cfg.Logging, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer app.Close()

			server := bootstrap.NewStatusServer(app)
			if err := server.Start(); err != nil {
				return err
			}
			<-cmd.Context().Done()
			return server.Stop(context.Background())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides http.addr)")
	return cmd
}

func newReplayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Play a scripted session run against a manual clock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			script, err := replay.Load(args[0])
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
			return bootstrap.RunReplay(cmd.Context(), *cfg, script, cmd.OutOrStdout(), logger)
		},
	}
}

func newJournalCmd(opts *rootOptions) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Inspect journaled sessions"}

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent completed sessions from the index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			sessions, err := app.VenueCLI.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			currency := app.Config.Venue.CurrencyLabel
			for _, s := range sessions {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\ttable=%d\tended=%s\tminutes=%d\tsum=%.1f %s\n",
					s.SessionID, s.Table, s.EndedAt.Format(time.RFC3339), s.Minutes, s.Cost, currency)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum sessions to list")

	reindex := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the session index from the session notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.VenueCLI.Reindex(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindexed %d sessions\n", out.Sessions)
			return nil
		},
	}

	journal.AddCommand(list, reindex)
	return journal
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			shown := *cfg
			if shown.Redis.Password != "" {
				shown.Redis.Password = "<redacted>"
			}
			if shown.Postgres.DSN != "" {
				shown.Postgres.DSN = "<redacted>"
			}
			raw, err := yaml.Marshal(shown)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
