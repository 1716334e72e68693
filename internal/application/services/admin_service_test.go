package services

import (
	"testing"

	"github.com/lumenlearn/engage-go/pkg/config"
)

func withAdminConfig(t *testing.T, key, hash, secret string) {
	t.Helper()
	prevKey, prevHash, prevSecret := config.AdminKey, config.AdminKeyHash, config.JWTSecret
	config.AdminKey, config.AdminKeyHash, config.JWTSecret = key, hash, secret
	t.Cleanup(func() {
		config.AdminKey, config.AdminKeyHash, config.JWTSecret = prevKey, prevHash, prevSecret
	})
}

func TestAuthenticateIssuesBypassToken(t *testing.T) {
	withAdminConfig(t, "letmein", "", "test-secret")
	svc := NewAdminService(quietLogger(t))

	result := svc.Authenticate("s1", "letmein")
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Token == "" {
		t.Fatal("expected a bypass token")
	}

	if !svc.ResolveBypass(result.Token) {
		t.Error("issued token must resolve to admin")
	}
}

func TestAuthenticateRejectsWrongKey(t *testing.T) {
	withAdminConfig(t, "letmein", "", "test-secret")
	svc := NewAdminService(quietLogger(t))

	result := svc.Authenticate("s1", "wrong")
	if result.Success {
		t.Fatal("wrong key must not authenticate")
	}
	if result.Token != "" {
		t.Error("failed authentication must not issue a token")
	}
}

func TestAuthenticateRejectsEmptyKey(t *testing.T) {
	withAdminConfig(t, "", "", "test-secret")
	svc := NewAdminService(quietLogger(t))

	if result := svc.Authenticate("s1", ""); result.Success {
		t.Fatal("empty key must not authenticate, even with no key configured")
	}
}

func TestResolveBypassRejectsGarbage(t *testing.T) {
	withAdminConfig(t, "letmein", "", "test-secret")
	svc := NewAdminService(quietLogger(t))

	if svc.ResolveBypass("") {
		t.Error("empty token must resolve to false")
	}
	if svc.ResolveBypass("not.a.jwt") {
		t.Error("malformed token must resolve to false")
	}
}

func TestResolveBypassRejectsForeignSecret(t *testing.T) {
	withAdminConfig(t, "letmein", "", "secret-a")
	svc := NewAdminService(quietLogger(t))

	result := svc.Authenticate("s1", "letmein")
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}

	config.JWTSecret = "secret-b"
	if svc.ResolveBypass(result.Token) {
		t.Error("token signed under a different secret must resolve to false")
	}
}
