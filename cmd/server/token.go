package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/honeynil/player-service/internal/infrastructure/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an admin token for the write routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			token, err := auth.GenerateJWT([]byte(cfg.JWTSecret), subject, auth.RoleAdmin, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
