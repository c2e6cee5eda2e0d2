package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-notetaker/pkg/config"
	"github.com/johnquangdev/meeting-notetaker/pkg/jwt"
)

type issuedToken struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newTokenCmd() *cobra.Command {
	var (
		userID string
		email  string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Long: `token signs a bearer token with JWT_ACCESS_SECRET, the secret the API
verifies against. Use --role admin for the API key endpoints and
--role service_role for the maintenance endpoints.`,
		Example: `  notetakerctl token --email alice@test.local
  notetakerctl token --role service_role -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return err
			}
			if cfg.JWT.AccessSecret == "" {
				return errors.New("JWT_ACCESS_SECRET is not set")
			}

			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("invalid --user-id: %w", err)
				}
			}

			manager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.Issuer, ttl)
			token, err := manager.GenerateAccessToken(id, email, role)
			if err != nil {
				return err
			}

			out := issuedToken{
				UserID:      id,
				Email:       email,
				Role:        role,
				AccessToken: token,
				ExpiresAt:   time.Now().UTC().Add(ttl),
			}
			if done, err := render(cmd.OutOrStdout(), out); done {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🔑 %s (%s, %s)\n%s\n", out.Email, out.UserID, out.Role, out.AccessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "User id to embed (random when empty)")
	cmd.Flags().StringVar(&email, "email", "dev@test.local", "Email claim")
	cmd.Flags().StringVar(&role, "role", "user", "Role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
