package auth

import "testing"

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"))

	issued, err := tokens.Issue(Claims{Email: "student@example.com", Name: "Student"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := tokens.Verify(issued)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Email != "student@example.com" {
		t.Errorf("expected email to round-trip, got %q", claims.Email)
	}
	if claims.Name != "Student" {
		t.Errorf("expected name to round-trip, got %q", claims.Name)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Error("expected expiry and issued-at to be set")
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	tokens := NewTokenService([]byte("test-secret"))

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Verify(bad); err != ErrInvalidToken {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", bad, err)
		}
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issued, err := NewTokenService([]byte("secret-one")).Issue(Claims{Email: "a@b.c"})
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := NewTokenService([]byte("secret-two")).Verify(issued); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}
}
