package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	trusted := []string{"10.0.0.0/8", " 192.168.1.5 ", "not-an-ip", ""}

	tests := []struct {
		name       string
		remoteAddr string
		realIP     string
		forwarded  string
		want       string
	}{
		{
			name:       "trusted proxy with X-Real-IP",
			remoteAddr: "10.1.2.3:4000",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "trusted single address with X-Forwarded-For chain",
			remoteAddr: "192.168.1.5:4000",
			forwarded:  "198.51.100.7, 10.1.2.3",
			want:       "198.51.100.7",
		},
		{
			name:       "X-Real-IP wins over X-Forwarded-For",
			remoteAddr: "10.1.2.3:4000",
			realIP:     "203.0.113.9",
			forwarded:  "198.51.100.7",
			want:       "203.0.113.9",
		},
		{
			name:       "untrusted peer keeps its address",
			remoteAddr: "172.16.0.1:4000",
			realIP:     "203.0.113.9",
			want:       "172.16.0.1:4000",
		},
		{
			name:       "invalid header value ignored",
			remoteAddr: "10.1.2.3:4000",
			realIP:     "spoofed",
			want:       "10.1.2.3:4000",
		},
		{
			name:       "no headers keeps address",
			remoteAddr: "10.1.2.3:4000",
			want:       "10.1.2.3:4000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := TrustedRealIP(trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrustedRealIP_NoneTrusted(t *testing.T) {
	var got string
	handler := TrustedRealIP(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:4000"
	req.Header.Set("X-Real-IP", "203.0.113.9")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "10.1.2.3:4000" {
		t.Errorf("RemoteAddr = %q, want %q", got, "10.1.2.3:4000")
	}
}
