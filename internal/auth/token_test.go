package auth

import (
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken("user-1", RoleMember, "emp-1", time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	actor, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.ID != "user-1" {
		t.Fatalf("unexpected subject: %s", actor.ID)
	}
	if actor.Role != RoleMember {
		t.Fatalf("unexpected role: %s", actor.Role)
	}
	if actor.EmployeeID != "emp-1" {
		t.Fatalf("unexpected employee id: %s", actor.EmployeeID)
	}
}

func TestGenerateTokenRejectsUnknownRole(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	if _, err := GenerateToken("user-1", Role("superuser"), "", time.Minute); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseAndValidateRejectsGarbage(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ParseAndValidate(token); err == nil {
			t.Fatalf("expected failure for token %q", token)
		}
	}
}

func TestParseAndValidateRejectsExpired(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	token, err := GenerateToken("user-1", RoleAdmin, "", time.Millisecond)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := ParseAndValidate(token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestMissingSecretFails(t *testing.T) {
	t.Setenv(secretEnvVariable, "")
	ResetSecretForTests()
	t.Cleanup(ResetSecretForTests)

	if _, err := GenerateToken("user-1", RoleAdmin, "", time.Minute); err == nil {
		t.Fatal("expected error without configured secret")
	}
}
