package command

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-zkwallet/internal/app"
	"github/chapool/go-zkwallet/internal/config"
	"github/chapool/go-zkwallet/internal/metrics"
	"github/chapool/go-zkwallet/internal/util"
)

// Persistent flags of the root command.
const (
	FlagConfig         = "config"
	FlagEnvFile        = "env-file"
	FlagMetricsPushURL = "metrics-push-url"
)

// LoadConfig loads the config named by the persistent flags of cmd.
func LoadConfig(cmd *cobra.Command) (config.Config, error) {
	configPath, err := cmd.Flags().GetString(FlagConfig)
	if err != nil {
		return config.Config{}, errors.Wrapf(err, "failed to read --%s", FlagConfig)
	}
	envFile, err := cmd.Flags().GetString(FlagEnvFile)
	if err != nil {
		return config.Config{}, errors.Wrapf(err, "failed to read --%s", FlagEnvFile)
	}

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return config.Config{}, err
	}

	if flag := cmd.Flags().Lookup(FlagMetricsPushURL); flag != nil && flag.Changed {
		cfg.Metrics.PushURL = flag.Value.String()
	}

	return cfg, nil
}

// RunWithApp loads the config of cmd and runs f with a wired App.
func RunWithApp(cmd *cobra.Command, f func(ctx context.Context, a *app.App) error) error {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return err
	}
	return WithApp(cmd.Context(), cfg, f)
}

// WithApp configures the logger, wires an App from cfg and runs f with it.
// Connections are closed once f returns. With a configured Pushgateway the
// metrics are pushed afterwards; a failed push is only logged.
func WithApp(ctx context.Context, cfg config.Config, f func(ctx context.Context, a *app.App) error) error {
	util.ConfigureLogger(cfg.Logger)

	a, cleanup, err := app.InitApp(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize app")
		return errors.Wrap(err, "failed to initialize app")
	}
	defer cleanup()

	log.Debug().
		Str("address", a.Wallet.Address().Hex()).
		Uint64("chain_id", a.Wallet.ChainID()).
		Msg("App initialized")

	err = f(ctx, a)

	if cfg.Metrics.PushURL != "" {
		if pushErr := metrics.Push(ctx, cfg.Metrics.PushURL, cfg.Metrics.Job); pushErr != nil {
			log.Warn().Err(pushErr).Msg("Failed to push metrics")
		}
	}

	return err
}

// NewSubcommandGroup returns a command that only groups its subcommands and
// prints the help text when called on its own.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("%s related subcommands", name),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(subcommands...)

	return cmd
}
