package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func originRequest(origin, host string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws/markers", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if host != "" {
		req.Host = host
	}
	return req
}

func TestCheckOriginWithConfiguredOrigin(t *testing.T) {
	check := checkOrigin("https://app.example.com")

	assert.True(t, check(originRequest("https://app.example.com", "app.example.com")))
	assert.True(t, check(originRequest("HTTPS://APP.EXAMPLE.COM", "app.example.com")))
	assert.True(t, check(originRequest("https://app.example.com/", "app.example.com")))

	// The session cookie rides on the upgrade, so foreign pages stay out.
	assert.False(t, check(originRequest("https://evil.example.net", "app.example.com")))
	assert.False(t, check(originRequest("http://app.example.com.evil.net", "app.example.com")))
}

func TestCheckOriginDefaultsToSameHost(t *testing.T) {
	check := checkOrigin("")

	assert.True(t, check(originRequest("https://app.example.com", "app.example.com")))
	assert.False(t, check(originRequest("https://evil.example.net", "app.example.com")))
	assert.False(t, check(originRequest("://bad-origin", "app.example.com")))
}

func TestCheckOriginAllowsNonBrowserClients(t *testing.T) {
	// No Origin header means a non-browser client; cookie auth still applies.
	assert.True(t, checkOrigin("https://app.example.com")(originRequest("", "app.example.com")))
	assert.True(t, checkOrigin("")(originRequest("", "app.example.com")))
}
