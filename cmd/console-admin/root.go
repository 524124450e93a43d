package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/mxc-foundation/lpwan-console/config"
	"github.com/mxc-foundation/lpwan-console/internal/apiclient"
	"github.com/mxc-foundation/lpwan-console/internal/store"
)

// cliEnv is the environment the CLI reads before flags apply.
type cliEnv struct {
	Upstream config.UpstreamConfig `envPrefix:"UPSTREAM_"`
	Token    string                `env:"CONSOLE_API_TOKEN"`
}

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	baseURL string
	token   string
	verbose bool

	upstream config.UpstreamConfig
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	var defaults cliEnv
	if err := env.Parse(&defaults); err == nil {
		defaults.Upstream.Sanitize()
		opts.upstream = defaults.Upstream
	}

	rootCmd := &cobra.Command{
		Use:   "console-admin",
		Short: "Operator CLI for the LPWAN console",
		Long: `console-admin reads the same paginated views the web console serves,
straight from the network server API.

Authenticate once with "console-admin login" and export the printed token
as CONSOLE_API_TOKEN, or pass it with --token.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			opts.upstream.BaseURL = strings.TrimRight(strings.TrimSpace(opts.baseURL), "/")
			if opts.upstream.BaseURL == "" {
				return fmt.Errorf("--base-url is required")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", defaults.Upstream.BaseURL, "Network server API base URL (UPSTREAM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", defaults.Token, "Upstream JWT (CONSOLE_API_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log upstream requests")

	rootCmd.AddCommand(newViewsCmd())
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newBrowseCmd(opts))
	rootCmd.AddCommand(newLoginCmd(opts))

	return rootCmd
}

// stores builds a store set against the configured upstream. Non-error
// toasts are written to errOut; errors reach the user as the command result.
func (o *rootOptions) stores(errOut io.Writer) (*store.Set, error) {
	client, err := apiclient.New(apiclient.Config{
		BaseURL:      o.upstream.BaseURL,
		Timeout:      o.upstream.Timeout,
		RetryMax:     o.upstream.RetryMax,
		RetryWaitMin: o.upstream.RetryWaitMin,
		RetryWaitMax: o.upstream.RetryWaitMax,
		HTTP2:        o.upstream.HTTP2,
		Logger:       o.logger,
	})
	if err != nil {
		return nil, err
	}
	return store.NewSet(store.Options{
		Backend:  client,
		Notifier: toastWriter(errOut),
		Logger:   o.logger,
	})
}

// authed returns ctx carrying the configured token.
func (o *rootOptions) authed(ctx context.Context) context.Context {
	return apiclient.WithToken(ctx, o.token)
}

func toastWriter(w io.Writer) store.NotifierFunc {
	return func(_ context.Context, t store.Toast) {
		if t.Kind == store.ToastError {
			return
		}
		_, _ = fmt.Fprintf(w, "%s: %s\n", t.Kind, t.Message)
	}
}
