package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/campuskit/school-service/internal/models"
)

func TestCodec_IssueAndVerify(t *testing.T) {
	codec, err := NewCodec("test-secret", "school-service")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := codec.Issue("user-1", models.RoleTeacher, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Expected subject 'user-1', got %q", claims.Subject)
	}
	if claims.Role != string(models.RoleTeacher) {
		t.Errorf("Expected role 'teacher', got %q", claims.Role)
	}
	if claims.Issuer != "school-service" {
		t.Errorf("Expected issuer 'school-service', got %q", claims.Issuer)
	}
}

func TestCodec_VerifyExpired(t *testing.T) {
	codec, _ := NewCodec("test-secret", "school-service")

	token, err := codec.Issue("user-1", models.RoleStudent, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = codec.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Expected ErrExpiredToken, got %v", err)
	}
}

func TestCodec_VerifyTampered(t *testing.T) {
	codec, _ := NewCodec("test-secret", "school-service")

	token, err := codec.Issue("user-1", models.RoleStudent, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip the signature segment.
	parts := strings.Split(token, ".")
	parts[2] = "AAAA" + parts[2][4:]

	_, err = codec.Verify(strings.Join(parts, "."))
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_VerifyWrongSecret(t *testing.T) {
	issuing, _ := NewCodec("secret-a", "school-service")
	verifying, _ := NewCodec("secret-b", "school-service")

	token, err := issuing.Issue("user-1", models.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = verifying.Verify(token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_VerifyGarbage(t *testing.T) {
	codec, _ := NewCodec("test-secret", "school-service")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	if _, err := NewCodec("", "school-service"); err == nil {
		t.Error("Expected error for empty secret")
	}
}
