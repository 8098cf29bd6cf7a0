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
		{name: "remote addr", remote: "192.0.2.7:4000", want: "192.0.2.7"},
		{name: "ipv6 remote addr", remote: "[2001:db8::1]:4000", want: "2001:db8::1"},
		{name: "headers ignored without trust", remote: "192.0.2.7:4000", headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, want: "192.0.2.7"},
		{name: "left-most forwarded for", remote: "127.0.0.1:1", headers: map[string]string{"X-Forwarded-For": " 10.0.0.1 , 127.0.0.1"}, trustProxy: true, want: "10.0.0.1"},
		{name: "cloudflare header first", remote: "127.0.0.1:1", headers: map[string]string{"CF-Connecting-IP": "198.51.100.2", "X-Forwarded-For": "10.0.0.1"}, trustProxy: true, want: "198.51.100.2"},
		{name: "real ip fallback", remote: "127.0.0.1:1", headers: map[string]string{"X-Real-IP": "10.9.9.9"}, trustProxy: true, want: "10.9.9.9"},
		{name: "no headers with trust", remote: "127.0.0.1:1", trustProxy: true, want: "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.0.2.7 ", "garbage", "2001:db8::/32"})

	tests := []struct {
		ip   string
		want bool
	}{
		{"10.20.30.40", true},
		{"192.0.2.7", true},
		{"192.0.2.8", false},
		{"::ffff:10.1.1.1", true},
		{"2001:db8::42", true},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}

	if NewIPMatcher([]string{"", "nope"}).IsEmpty() != true {
		t.Error("IsEmpty() = false, want true for no valid entries")
	}
}
