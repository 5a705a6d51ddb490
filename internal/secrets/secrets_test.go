package secrets

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

func TestNewBox_RejectsBadKeys(t *testing.T) {
	cases := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"not hex", "zz"},
		{"too short", "deadbeef"},
		{"too long", testKey + "00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBox(tc.key); err == nil {
				t.Errorf("expected error for key %q", tc.key)
			}
		})
	}
}

func TestSealOpen_Roundtrip(t *testing.T) {
	box, err := NewBox(testKey)
	if err != nil {
		t.Fatalf("new box: %v", err)
	}

	const secret = "service-role-key-abc123"
	sealed, err := box.Seal(secret)
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, []byte(secret)) {
		t.Fatal("sealed value must not contain the plaintext")
	}

	got, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != secret {
		t.Errorf("roundtrip: want %q, got %q", secret, got)
	}
}

func TestSeal_NoncesDiffer(t *testing.T) {
	box, _ := NewBox(testKey)

	a, _ := box.Seal("same input")
	b, _ := box.Seal("same input")
	if bytes.Equal(a, b) {
		t.Error("two seals of the same plaintext must not be identical")
	}
}

func TestOpen_RejectsTamperedCiphertext(t *testing.T) {
	box, _ := NewBox(testKey)

	sealed, _ := box.Seal("tamper me")
	sealed[len(sealed)-1] ^= 0xff

	if _, err := box.Open(sealed); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestOpen_RejectsTruncatedInput(t *testing.T) {
	box, _ := NewBox(testKey)

	if _, err := box.Open([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestOpen_RejectsOtherKey(t *testing.T) {
	boxA, _ := NewBox(testKey)
	boxB, _ := NewBox(strings.Repeat("ab", 32))

	sealed, _ := boxA.Seal("cross key")
	if _, err := boxB.Open(sealed); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext, got %v", err)
	}
}
