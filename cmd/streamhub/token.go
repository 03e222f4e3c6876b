package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/streamhub/auth"
)

func newTokenCmd(root *rootOptions) *cobra.Command {
	var streams []string
	var secret string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a producer token",
		Long: `Mint a JWT that authorizes POST /streams/{key}/events, DELETE /streams/{key}
and POST /broadcast when auth is enabled.

The token is signed with auth.jwt.secret from the configuration, or --secret.
--streams limits the token to keys matching the given patterns (path.Match
syntax); without it the token may write to every stream.

Examples:
  streamhub token --streams 'room:*' --streams lobby
  STREAMHUB_AUTH_JWT_SECRET=... streamhub token`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			jwtCfg := cfg.Auth.JWT
			if secret != "" {
				jwtCfg.Secret = secret
			}

			svc, err := auth.NewProducerService(jwtCfg)
			if err != nil {
				return err
			}
			token, err := svc.GenerateAccess(&auth.ProducerClaims{Streams: streams})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&streams, "streams", nil, "key pattern the token may write to (repeatable)")
	cmd.Flags().StringVar(&secret, "secret", "", "signing secret (overrides auth.jwt.secret)")
	return cmd
}
