package service

import "testing"

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher()

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("plaintext stored as hash")
	}

	if !h.Verify("secret123", hash) {
		t.Fatalf("verify rejected the original password")
	}
	if h.Verify("secret124", hash) {
		t.Fatalf("verify accepted a wrong password")
	}
}

func TestPasswordHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewPasswordHasher()

	a, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatalf("two hashes of the same password must not match (missing salt)")
	}
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher()

	if h.Verify("whatever", "not-a-bcrypt-hash") {
		t.Fatalf("verify accepted a malformed hash")
	}
	if h.Verify("whatever", "") {
		t.Fatalf("verify accepted an empty hash")
	}
}
