package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/streamhub"
	"github.com/kbukum/streamhub/config"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configFile string
	envFile    string
}

func (o *rootOptions) loaderOptions() []config.LoaderOption {
	var opts []config.LoaderOption
	if o.configFile != "" {
		opts = append(opts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		opts = append(opts, config.WithEnvFile(o.envFile))
	}
	return opts
}

// loadConfig reads the configuration and applies defaults.
func (o *rootOptions) loadConfig() (*streamhub.Config, error) {
	cfg, err := streamhub.Load(o.loaderOptions()...)
	if err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "streamhub",
		Short: "streamhub - keyed Server-Sent Events hub",
		Long: `streamhub keeps long-lived Server-Sent Events responses in a registry
keyed by stream name, so producers can write to a stream from any request.

Configuration:
  Config is loaded from cmd/streamhub/config.yml, config/config.yml or
  ./config.yml, then from .env, then from the environment.

  Environment variables override config values with the STREAMHUB_ prefix.
  Example: STREAMHUB_SERVER_PORT=8080

Commands:
  serve     Start the HTTP server
  watch     Print the events of a stream
  token     Mint a producer token
  version   Print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: search standard paths)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", ".env file (default: search standard paths)")

	root.AddCommand(
		newServeCmd(opts),
		newWatchCmd(),
		newTokenCmd(opts),
		newVersionCmd(),
	)
	return root
}
