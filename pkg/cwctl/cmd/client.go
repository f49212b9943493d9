package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/campuswatch/campuswatch/pkg/cwctl/auth"
	"github.com/campuswatch/campuswatch/pkg/cwctl/client"
	"github.com/campuswatch/campuswatch/pkg/cwctl/config"
)

func buildClient(cmdCtx context.Context, rt *runtimeState) (*client.Client, error) {
	// Server plus token overrides bypass config and context resolution.
	if rt.serverOverride != "" && rt.tokenOverride != "" {
		options := []client.Option{
			client.WithServer(rt.serverOverride),
			client.WithToken(rt.tokenOverride),
			client.WithUserAgent("cwctl"),
		}
		options = appendCommonOptions(rt, options)
		options = append(options, client.WithTLSConfig("", false))
		return client.New(options...)
	}

	if err := rt.EnsureConfigLoaded(); err != nil {
		return nil, err
	}
	ctxCfg, err := rt.ResolveContext()
	if err != nil {
		return nil, err
	}
	server := rt.resolveServer(ctxCfg)
	if server == "" {
		return nil, errors.New("server is required")
	}

	token := rt.tokenOverride
	if token == "" {
		token, err = resolveTokenFromCache(cmdCtx, rt, ctxCfg)
		if err != nil {
			return nil, err
		}
	}
	options := []client.Option{
		client.WithServer(server),
		client.WithToken(token),
		client.WithUserAgent("cwctl"),
	}
	options = appendCommonOptions(rt, options)
	options = append(options, client.WithTLSConfig(resolveCAFile(ctxCfg, rt), ctxCfg.InsecureSkipTLSVerify))
	return client.New(options...)
}

func appendCommonOptions(rt *runtimeState, options []client.Option) []client.Option {
	if rt.cfg != nil && rt.cfg.Settings.Timeout != "" {
		if timeout, parseErr := time.ParseDuration(rt.cfg.Settings.Timeout); parseErr == nil {
			options = append(options, client.WithTimeout(timeout))
		}
	}
	if rt.verbose {
		// Debug lines go to stderr so json output stays parseable.
		options = append(options, client.WithVerbose(func(format string, args ...any) {
			_, _ = fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
		}))
	}
	return options
}

func resolveCAFile(ctxCfg *config.Context, rt *runtimeState) string {
	if ctxCfg == nil {
		return ""
	}
	if ctxCfg.CAFile != "" {
		return ctxCfg.CAFile
	}
	resolved, err := rt.cfg.ResolveOIDC(ctxCfg)
	if err == nil && resolved.CAFile != "" {
		return resolved.CAFile
	}
	return ""
}

func resolveTokenFromCache(cmdCtx context.Context, rt *runtimeState, ctxCfg *config.Context) (string, error) {
	resolved, err := rt.cfg.ResolveOIDC(ctxCfg)
	if err != nil {
		return "", err
	}
	secret, err := auth.ResolveClientSecret(resolved.ClientSecret, resolved.ClientSecretEnv, resolved.ClientSecretFile)
	if err != nil {
		return "", err
	}
	oidcCfg := auth.OIDCConfig{
		Authority:       resolved.Authority,
		ClientID:        resolved.ClientID,
		ClientSecret:    secret,
		Scopes:          resolved.Scopes,
		GrantType:       resolved.GrantType,
		CAFile:          resolved.CAFile,
		InsecureSkipTLS: resolved.InsecureSkipTLS,
	}

	manager, err := rt.TokenManager()
	if err != nil {
		return "", err
	}
	token, ok, err := manager.GetToken(resolved.ProviderName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("not authenticated; run 'cwctl auth login'")
	}

	oauthResult, err := auth.BuildOAuthConfig(cmdCtx, oidcCfg, "")
	if err != nil {
		return "", err
	}
	if _, refreshed, err := manager.RefreshIfNeeded(cmdCtx, resolved.ProviderName, oauthResult.OAuthConfig); err != nil {
		// Service accounts can just fetch a fresh token.
		if resolved.GrantType == "client-credentials" {
			loginResult, loginErr := auth.ClientCredentialsLogin(cmdCtx, oidcCfg)
			if loginErr != nil {
				return "", loginErr
			}
			_ = manager.SaveToken(resolved.ProviderName, auth.StoredToken{
				AccessToken:  loginResult.Token.AccessToken,
				RefreshToken: loginResult.Token.RefreshToken,
				TokenType:    loginResult.Token.TokenType,
				Expiry:       loginResult.Token.Expiry,
				IDToken:      loginResult.IDToken,
			})
			return loginResult.Token.AccessToken, nil
		}
		return "", err
	} else if refreshed {
		token, _, _ = manager.GetToken(resolved.ProviderName)
	}
	return token.AccessToken, nil
}
