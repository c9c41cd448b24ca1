package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discoveryServer(t *testing.T, doc map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDiscoverOIDC(t *testing.T) {
	srv := discoveryServer(t, map[string]interface{}{
		"issuer":                                "https://idp.example.com",
		"jwks_uri":                              "https://idp.example.com/keys",
		"id_token_signing_alg_values_supported": []string{"RS256"},
	})

	p, err := DiscoverOIDC(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.JWKSURI != "https://idp.example.com/keys" {
		t.Errorf("jwks_uri = %s", p.JWKSURI)
	}
	if len(p.IDTokenSigningAlgValues) != 1 || p.IDTokenSigningAlgValues[0] != "RS256" {
		t.Errorf("signing algs = %v", p.IDTokenSigningAlgValues)
	}
}

func TestDiscoverOIDC_InvalidIssuer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	if _, err := DiscoverOIDC(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 404 discovery endpoint")
	}
	if _, err := DiscoverOIDC(context.Background(), "http://127.0.0.1:1"); err == nil {
		t.Fatal("expected error for unreachable issuer")
	}
}

func TestDiscoverOIDC_MissingJWKSURI(t *testing.T) {
	srv := discoveryServer(t, map[string]interface{}{"issuer": "https://idp.example.com"})
	if _, err := DiscoverOIDC(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for missing jwks_uri")
	}
}

func TestResolveJWKSURL(t *testing.T) {
	srv := discoveryServer(t, map[string]interface{}{"jwks_uri": "https://idp.example.com/keys"})
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  JWTConfig
		want string
	}{
		{"explicit url wins", JWTConfig{Issuer: srv.URL, JWKSURL: "https://other/keys"}, "https://other/keys"},
		{"hmac needs none", JWTConfig{Issuer: srv.URL, SigningKey: testSigningKey}, ""},
		{"nothing configured", JWTConfig{}, ""},
		{"discovered from issuer", JWTConfig{Issuer: srv.URL}, "https://idp.example.com/keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveJWKSURL(ctx, tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
