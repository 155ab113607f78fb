package util

import (
	"net/http"
	"testing"
	"time"
)

func TestNewProxyFuncSchemes(t *testing.T) {
	proxy := NewProxyFunc("http://plain:8080", "http://secure:8443", "")

	tests := []struct {
		url  string
		want string
	}{
		{"http://rpc.example/", "http://plain:8080"},
		{"https://rpc.example/", "http://secure:8443"},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
		got, err := proxy(req)
		if err != nil {
			t.Fatalf("proxy(%s) error: %v", tt.url, err)
		}
		if got == nil || got.String() != tt.want {
			t.Errorf("proxy(%s) = %v, want %s", tt.url, got, tt.want)
		}
	}
}

func TestNewProxyFuncNoProxy(t *testing.T) {
	proxy := NewProxyFunc("http://plain:8080", "", "localhost, .internal")

	for _, u := range []string{"http://localhost:8545", "http://rpc.internal/", "http://internal/"} {
		req, _ := http.NewRequest(http.MethodGet, u, nil)
		got, err := proxy(req)
		if err != nil || got != nil {
			t.Errorf("proxy(%s) = %v, %v; want direct", u, got, err)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, "http://notinternal/", nil)
	if got, _ := proxy(req); got == nil {
		t.Error("notinternal should be proxied")
	}
}

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient(3*time.Second, "", "", "")
	if c.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
	if _, ok := c.Transport.(*http.Transport); !ok {
		t.Errorf("Transport = %T", c.Transport)
	}
}
