package services

import (
	"bytes"
	"testing"
)

func testEvidenceService() *EvidenceService {
	key := bytes.Repeat([]byte{0x42}, 32)
	return &EvidenceService{key: key}
}

func TestEvidenceSealOpen(t *testing.T) {
	svc := testEvidenceService()
	content := []byte("reviewer report, decision letter attached")

	sealed, err := svc.seal(content)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, content) {
		t.Error("ciphertext contains the plaintext")
	}

	opened, err := svc.open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(opened, content) {
		t.Errorf("roundtrip mismatch: %q", opened)
	}
}

func TestEvidenceOpen_Tampered(t *testing.T) {
	svc := testEvidenceService()

	sealed, err := svc.seal([]byte("original"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff

	if _, err := svc.open(sealed); err == nil {
		t.Error("expected authentication failure on tampered ciphertext")
	}
}

func TestEvidenceOpen_TooShort(t *testing.T) {
	svc := testEvidenceService()
	if _, err := svc.open([]byte("short")); err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestEvidenceSeal_FreshNonce(t *testing.T) {
	svc := testEvidenceService()
	content := []byte("same content")

	a, err := svc.seal(content)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	b, err := svc.seal(content)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two seals of the same content must differ")
	}
}
