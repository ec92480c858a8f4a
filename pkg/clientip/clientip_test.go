package clientip

import (
	"net/http/httptest"
	"testing"
)

func TestRealClientIP(t *testing.T) {
	tests := map[string]string{
		"203.0.113.7:5123":         "203.0.113.7",
		"[::ffff:203.0.113.7]:443": "203.0.113.7",
		"[fe80::1%eth0]:80":        "fe80::1",
		"[2001:db8::1]:8080":       "2001:db8::1",
		"198.51.100.2":             "198.51.100.2",
		"pipe":                     "pipe",
	}
	for remote, want := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		r.RemoteAddr = remote
		r.Header.Set("X-Forwarded-For", "10.9.9.9")
		if got := RealClientIP(r); got != want {
			t.Errorf("RealClientIP(%q) = %q, want %q", remote, got, want)
		}
	}
}
