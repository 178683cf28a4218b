package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{"remote only", "192.0.2.1:1234", nil, false, "192.0.2.1"},
		{"headers ignored without trust", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.9"}, false, "192.0.2.1"},
		{"cloudflare first", "127.0.0.1:1", map[string]string{"CF-Connecting-IP": "198.51.100.7", "X-Forwarded-For": "203.0.113.9"}, true, "198.51.100.7"},
		{"left-most forwarded", "127.0.0.1:1", map[string]string{"X-Forwarded-For": " 203.0.113.9 , 10.0.0.1"}, true, "203.0.113.9"},
		{"real ip", "127.0.0.1:1", map[string]string{"X-Real-IP": "203.0.113.10"}, true, "203.0.113.10"},
		{"no headers with trust", "[2001:db8::1]:443", nil, true, "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.0.2.5 ", "bogus", "2001:db8::/32"})
	if m.IsEmpty() {
		t.Fatal("IsEmpty() = true")
	}

	tests := map[string]bool{
		"10.20.30.40":     true,
		"192.0.2.5":       true,
		"192.0.2.6":       false,
		"::ffff:10.0.0.1": true,
		"2001:db8:1::1":   true,
		"not-an-ip":       false,
		"":                false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("NewIPMatcher(nil) not empty")
	}
}
