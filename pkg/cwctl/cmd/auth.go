package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/campuswatch/campuswatch/pkg/cwctl/auth"
	"github.com/campuswatch/campuswatch/pkg/cwctl/config"
)

func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with CampusWatch",
	}
	cmd.AddCommand(
		newAuthLoginCommand(),
		newAuthStatusCommand(),
		newAuthLogoutCommand(),
	)
	return cmd
}

func resolveLoginConfig(rt *runtimeState) (*config.ResolvedOIDC, auth.OIDCConfig, error) {
	ctxCfg, err := rt.ResolveContext()
	if err != nil {
		return nil, auth.OIDCConfig{}, err
	}
	resolved, err := rt.cfg.ResolveOIDC(ctxCfg)
	if err != nil {
		return nil, auth.OIDCConfig{}, err
	}
	secret, err := auth.ResolveClientSecret(resolved.ClientSecret, resolved.ClientSecretEnv, resolved.ClientSecretFile)
	if err != nil {
		return nil, auth.OIDCConfig{}, err
	}
	return resolved, auth.OIDCConfig{
		Authority:       resolved.Authority,
		ClientID:        resolved.ClientID,
		ClientSecret:    secret,
		Scopes:          resolved.Scopes,
		GrantType:       resolved.GrantType,
		CAFile:          resolved.CAFile,
		InsecureSkipTLS: resolved.InsecureSkipTLS,
	}, nil
}

func newAuthLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Login via OIDC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			resolved, loginCfg, err := resolveLoginConfig(rt)
			if err != nil {
				return err
			}
			result, err := auth.Login(cmd.Context(), loginCfg)
			if err != nil {
				return err
			}
			manager, err := rt.TokenManager()
			if err != nil {
				return err
			}
			stored := auth.StoredToken{
				AccessToken:  result.Token.AccessToken,
				RefreshToken: result.Token.RefreshToken,
				TokenType:    result.Token.TokenType,
				Expiry:       result.Token.Expiry,
				IDToken:      result.IDToken,
			}
			if err := manager.SaveToken(resolved.ProviderName, stored); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Authenticated. Token expires at %s\n", stored.Expiry.UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			resolved, _, err := resolveLoginConfig(rt)
			if err != nil {
				return err
			}
			manager, err := rt.TokenManager()
			if err != nil {
				return err
			}
			token, ok, err := manager.GetToken(resolved.ProviderName)
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(rt.Writer(), "Not authenticated")
				return nil
			}
			state := "valid"
			if !token.Expiry.IsZero() && time.Now().After(token.Expiry) {
				state = "expired"
			}
			_, _ = fmt.Fprintf(rt.Writer(), "Provider: %s\n", resolved.ProviderName)
			_, _ = fmt.Fprintf(rt.Writer(), "Token: %s\n", state)
			if !token.Expiry.IsZero() {
				_, _ = fmt.Fprintf(rt.Writer(), "Expires: %s\n", token.Expiry.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the cached token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			if err := rt.EnsureConfigLoaded(); err != nil {
				return err
			}
			resolved, _, err := resolveLoginConfig(rt)
			if err != nil {
				return err
			}
			manager, err := rt.TokenManager()
			if err != nil {
				return err
			}
			if err := manager.DeleteToken(resolved.ProviderName); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(rt.Writer(), "Logged out")
			return nil
		},
	}
}
