package handlers

import (
	"testing"

	"github.com/dhruvldrp9/Doctor-Appointment-System/libs/auth"
)

func TestPasswordHashing(t *testing.T) {
	password := "pass123"
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if err := verifyPassword(hash, password); err != nil {
		t.Fatalf("verifyPassword should succeed: %v", err)
	}
	if err := verifyPassword(hash, "wrong-pass"); err == nil {
		t.Fatal("verifyPassword should fail for wrong password")
	}
}

func TestHS256SignerRoundTrip(t *testing.T) {
	signer := NewHS256Signer("test-secret")
	token, err := signer.Sign(auth.Claims{Sub: "user-1", Role: "doctor", Name: "Jane Roe", Exp: 4102444800})
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	claims, err := signer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Sub != "user-1" || claims.Role != "doctor" || claims.Name != "Jane Roe" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := NewHS256Signer("other-secret").Verify(token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}
