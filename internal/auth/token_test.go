package auth

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestResolveEnvWins(t *testing.T) {
	t.Setenv("PANELD_TEST_TOKEN", "Bearer ghp_abc123")
	path := writeFile(t, "token", "ghp_fromfile")

	cred := Resolve("PANELD_TEST_TOKEN", path)
	if cred.Kind != KindStatic {
		t.Fatalf("unexpected kind: %s", cred.Kind)
	}
	if cred.Token != "ghp_abc123" {
		t.Fatalf("expected Bearer prefix stripped, got %q", cred.Token)
	}
}

func TestResolveBareStringFile(t *testing.T) {
	path := writeFile(t, "token", "  ghp_fromfile\n")
	cred := Resolve("PANELD_UNSET_TOKEN", path)
	if cred.Kind != KindStatic || cred.Token != "ghp_fromfile" {
		t.Fatalf("unexpected credential: %#v", cred)
	}
}

func TestResolveOAuthObjectFile(t *testing.T) {
	path := writeFile(t, "token.json",
		`{"access_token":"ya29.a0","refresh_token":"1//refresh","token_type":"Bearer"}`)
	cred := Resolve("PANELD_UNSET_TOKEN", path)
	if cred.Kind != KindOAuth {
		t.Fatalf("unexpected kind: %s", cred.Kind)
	}
	if cred.OAuth.RefreshToken != "1//refresh" {
		t.Fatalf("unexpected refresh token: %q", cred.OAuth.RefreshToken)
	}
}

func TestResolveMissingIsUnconfigured(t *testing.T) {
	cred := Resolve("PANELD_UNSET_TOKEN", filepath.Join(t.TempDir(), "absent"))
	if cred.Configured() {
		t.Fatalf("expected unconfigured, got %#v", cred)
	}
}

func TestResolveEmptyFileIsUnconfigured(t *testing.T) {
	path := writeFile(t, "token", "   \n")
	cred := Resolve("PANELD_UNSET_TOKEN", path)
	if cred.Configured() {
		t.Fatalf("expected unconfigured, got %#v", cred)
	}
}

func TestSaveTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	tok := &oauth2.Token{AccessToken: "ya29.a0", RefreshToken: "1//refresh"}
	if err := SaveToken(path, tok); err != nil {
		t.Fatalf("save token: %v", err)
	}
	cred := Resolve("PANELD_UNSET_TOKEN", path)
	if cred.Kind != KindOAuth || cred.OAuth.AccessToken != "ya29.a0" {
		t.Fatalf("unexpected credential: %#v", cred)
	}
}
