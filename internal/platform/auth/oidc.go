package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OIDCProvider is the subset of an OpenID Connect discovery document the
// service needs to verify bearer tokens.
type OIDCProvider struct {
	Issuer                  string   `json:"issuer"`
	JWKSURI                 string   `json:"jwks_uri"`
	IDTokenSigningAlgValues []string `json:"id_token_signing_alg_values_supported"`
}

// DiscoverOIDC reads issuer/.well-known/openid-configuration.
func DiscoverOIDC(ctx context.Context, issuer string) (*OIDCProvider, error) {
	url := strings.TrimRight(issuer, "/") + "/.well-known/openid-configuration"

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch oidc discovery document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oidc discovery returned status %d", resp.StatusCode)
	}

	var p OIDCProvider
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode oidc discovery document: %w", err)
	}
	if p.JWKSURI == "" {
		return nil, errors.New("oidc discovery document has no jwks_uri")
	}
	return &p, nil
}

// ResolveJWKSURL returns cfg.JWKSURL, or the issuer's advertised key set when
// only an issuer is configured. HMAC configurations need neither.
func ResolveJWKSURL(ctx context.Context, cfg JWTConfig) (string, error) {
	if cfg.JWKSURL != "" || len(cfg.SigningKey) > 0 || cfg.Issuer == "" {
		return cfg.JWKSURL, nil
	}
	p, err := DiscoverOIDC(ctx, cfg.Issuer)
	if err != nil {
		return "", err
	}
	return p.JWKSURI, nil
}
