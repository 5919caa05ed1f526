package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantWeb     string
		wantAPI     string
		wantAuthAPI string
	}{
		{
			name:        "bare host",
			raw:         "https://review.example.org",
			wantWeb:     "https://review.example.org",
			wantAPI:     "https://review.example.org",
			wantAuthAPI: "https://review.example.org/a",
		},
		{
			name:        "host with path",
			raw:         "https://example.org/gerrit",
			wantWeb:     "https://example.org/gerrit",
			wantAPI:     "https://example.org/gerrit",
			wantAuthAPI: "https://example.org/gerrit/a",
		},
		{
			name:        "trailing slashes trimmed",
			raw:         "https://example.org/gerrit///",
			wantWeb:     "https://example.org/gerrit",
			wantAPI:     "https://example.org/gerrit",
			wantAuthAPI: "https://example.org/gerrit/a",
		},
		{
			name:        "explicit port kept",
			raw:         "http://gerrit.internal:8080",
			wantWeb:     "http://gerrit.internal:8080",
			wantAPI:     "http://gerrit.internal:8080",
			wantAuthAPI: "http://gerrit.internal:8080/a",
		},
		{
			name:        "surrounding whitespace ignored",
			raw:         "  https://example.org/gerrit ",
			wantWeb:     "https://example.org/gerrit",
			wantAPI:     "https://example.org/gerrit",
			wantAuthAPI: "https://example.org/gerrit/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, err := ResolveEndpoint(tt.raw)
			require.NoError(t, err)

			web := endpoint.WebURI()
			api := endpoint.APIURI()
			authAPI := endpoint.AuthenticatedAPIURI()
			assert.Equal(t, tt.wantWeb, web.String())
			assert.Equal(t, tt.wantAPI, api.String())
			assert.Equal(t, tt.wantAuthAPI, authAPI.String())
			assert.NotEmpty(t, api.String())
		})
	}
}

func TestResolveEndpoint_Idempotent(t *testing.T) {
	const raw = "https://example.org/gerrit/"

	first, err := ResolveEndpoint(raw)
	require.NoError(t, err)
	second, err := ResolveEndpoint(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveEndpoint_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "blank", raw: ""},
		{name: "whitespace only", raw: "   "},
		{name: "missing scheme", raw: "example.org/gerrit"},
		{name: "missing host", raw: "https://"},
		{name: "unparsable", raw: "https://exa mple.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, err := ResolveEndpoint(tt.raw)
			require.ErrorIs(t, err, ErrMalformedEndpoint)
			// No partially constructed endpoint escapes.
			assert.Equal(t, ServerEndpoint{}, endpoint)
		})
	}
}

func TestCheckServerURL(t *testing.T) {
	assert.NoError(t, CheckServerURL("https://example.org/gerrit"))
	assert.ErrorIs(t, CheckServerURL("not a url"), ErrMalformedEndpoint)
}
