package main

import (
	"fmt"

	"github.com/marketlane/sellermetrics/internal/auth/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Issue a signed API token for local testing",
		RunE:  runToken,
	}

	tokenSubject string
	tokenRole    string
)

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "sub", "", "user id the token is issued for")
	tokenCmd.Flags().StringVar(&tokenRole, "role", jwt.RoleSeller, "SELLER or ADMIN")
	_ = tokenCmd.MarkFlagRequired("sub")
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenRole != jwt.RoleSeller && tokenRole != jwt.RoleAdmin {
		return fmt.Errorf("unknown role %q", tokenRole)
	}
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is not set")
	}
	tok, err := jwt.NewToken(jwt.New(&cfg.Auth), cfg.Auth.JWTTTL, tokenSubject, tokenRole)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}
