package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func echoRemoteAddr() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.RemoteAddr))
	})
}

func TestTrustedRealIP(t *testing.T) {
	h := TrustedRealIP([]string{"10.0.0.0/8", "192.168.1.5", "bogus"})(echoRemoteAddr())

	tests := []struct {
		name   string
		remote string
		header map[string]string
		want   string
	}{
		{
			name:   "trusted proxy with X-Real-IP",
			remote: "10.1.2.3:5555",
			header: map[string]string{"X-Real-IP": "203.0.113.7"},
			want:   "203.0.113.7",
		},
		{
			name:   "trusted single ip with X-Forwarded-For",
			remote: "192.168.1.5:80",
			header: map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"},
			want:   "198.51.100.1",
		},
		{
			name:   "untrusted client headers ignored",
			remote: "203.0.113.9:1234",
			header: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:   "203.0.113.9:1234",
		},
		{
			name:   "invalid forwarded value ignored",
			remote: "10.1.2.3:5555",
			header: map[string]string{"X-Real-IP": "not-an-ip"},
			want:   "10.1.2.3:5555",
		},
		{
			name:   "trusted proxy without headers",
			remote: "10.1.2.3:5555",
			want:   "10.1.2.3:5555",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/validate", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "path=/api/validate")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "bytes=5")
	assert.Contains(t, out, "ip=203.0.113.9")
}
