// Package auth resolves source credentials. Resolution is tagged: every
// lookup ends in a Credential that says what it found, so callers never
// re-sniff the shape of a token at use time.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type Kind string

const (
	// KindNone means nothing was found. The owning source is skipped.
	KindNone Kind = "none"
	// KindStatic is a bare token string, for example a GitHub PAT.
	KindStatic Kind = "static"
	// KindOAuth is a stored oauth2 token object with a refresh token.
	KindOAuth Kind = "oauth"
)

type Credential struct {
	Kind   Kind
	Token  string
	OAuth  *oauth2.Token
	Origin string
}

func (c Credential) Configured() bool { return c.Kind != KindNone }

// Resolve looks for a token in the environment variable first, then in the
// token file. A file may hold either an oauth2 JSON object or a bare string.
// Nothing found is not an error: the result is simply unconfigured.
func Resolve(envVar, tokenFile string) Credential {
	if raw := os.Getenv(envVar); strings.TrimSpace(raw) != "" {
		return Credential{Kind: KindStatic, Token: stripBearer(raw), Origin: "env:" + envVar}
	}
	if tokenFile == "" {
		return Credential{Kind: KindNone}
	}
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return Credential{Kind: KindNone}
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err == nil && (tok.AccessToken != "" || tok.RefreshToken != "") {
		return Credential{Kind: KindOAuth, OAuth: &tok, Origin: "file:" + tokenFile}
	}

	if raw := stripBearer(string(data)); raw != "" {
		return Credential{Kind: KindStatic, Token: raw, Origin: "file:" + tokenFile}
	}
	return Credential{Kind: KindNone}
}

func stripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if rest, found := strings.CutPrefix(raw, "Bearer "); found {
		return strings.TrimSpace(rest)
	}
	return raw
}

// GoogleClient builds an auto-refreshing HTTP client from a downloaded
// credentials.json and a stored oauth2 token. Either file missing means the
// source is unconfigured; the returned client is nil and err is nil.
func GoogleClient(ctx context.Context, credentialsFile, tokenFile string, scopes []string) (*http.Client, error) {
	secrets, err := os.ReadFile(credentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read client secrets %s: %w", credentialsFile, err)
	}
	config, err := google.ConfigFromJSON(secrets, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}

	cred := Resolve("", tokenFile)
	if cred.Kind != KindOAuth {
		return nil, nil
	}
	return config.Client(ctx, cred.OAuth), nil
}

// SaveToken writes an oauth2 token to disk, owner-readable only.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save token %s: %w", path, err)
	}
	return nil
}
