package utils

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealerRoundTrip(t *testing.T) {
	master := bytes.Repeat([]byte{7}, 32)
	s, err := NewSealer(master, "user-snapshot")
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := s.Seal(`{"id":"demo_user"}`)
	if err != nil {
		t.Fatal(err)
	}
	if sealed == `{"id":"demo_user"}` {
		t.Fatal("value was not sealed")
	}
	opened, err := s.Open(sealed)
	if err != nil {
		t.Fatal(err)
	}
	if opened != `{"id":"demo_user"}` {
		t.Errorf("opened = %q", opened)
	}
}

func TestSealerPurposesAreIsolated(t *testing.T) {
	master := bytes.Repeat([]byte{7}, 32)
	a, _ := NewSealer(master, "user-snapshot")
	b, _ := NewSealer(master, "something-else")

	sealed, err := a.Seal("secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Open(sealed); err == nil {
		t.Error("value sealed for one purpose opened under another")
	}
}

func TestParseEncryptionKey(t *testing.T) {
	if _, err := ParseEncryptionKey(""); err == nil {
		t.Error("empty key accepted")
	}
	if _, err := ParseEncryptionKey("c2hvcnQ="); err == nil {
		t.Error("short key accepted")
	}
	key, err := ParseEncryptionKey("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=")
	if err != nil {
		t.Fatal(err)
	}
	if len(key) != 32 {
		t.Errorf("len = %d", len(key))
	}
}

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		confirm   string
		wantField string
	}{
		{"ok", "ana@example.com", "pw", "pw", ""},
		{"missing email", "", "pw", "pw", "email"},
		{"missing password", "ana@example.com", "", "", "password"},
		{"bad email", "not-an-email", "pw", "pw", "email"},
		{"mismatch", "ana@example.com", "pw", "other", "confirm_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.email, tt.password, tt.confirm)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestDisplayNameFromEmail(t *testing.T) {
	tests := map[string]string{
		"ana@example.com":    "ana",
		"  bloom.rose@x.io ": "bloom.rose",
		"@example.com":       "Sister",
		"":                   "Sister",
	}
	for in, want := range tests {
		if got := DisplayNameFromEmail(in); got != want {
			t.Errorf("DisplayNameFromEmail(%q) = %q, want %q", in, got, want)
		}
	}
}
