package watson

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/config"
)

var testSummary = Summary{RecordID: 7, HexInput: "1A", Sin: 0.438371, Cos: 0.898794}

func newTestClient(url string, timeout time.Duration) *Client {
	return New(config.WatsonConfig{APIKey: "secret", URL: url, Timeout: timeout}, zap.NewNop())
}

func TestConfirmSendsMessage(t *testing.T) {
	var got MessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "apikey", user)
		assert.Equal(t, "secret", pass)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"output":{"generic":[{"text":"confirmed"}]}}`)
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, time.Second).Confirm(context.Background(), testSummary)
	require.NoError(t, err)
	assert.True(t, reply.Truthy)
	assert.JSONEq(t, `{"output":{"generic":[{"text":"confirmed"}]}}`, string(reply.Body))
	assert.Equal(t, testSummary.Text(), got.Input.Text)
	assert.Contains(t, got.Input.Text, "7")
	assert.Contains(t, got.Input.Text, `"1A"`)
	assert.Contains(t, got.Input.Text, "0.438371")
	assert.Contains(t, got.Input.Text, "0.898794")
}

func TestConfirmTruthiness(t *testing.T) {
	tests := []struct {
		body   string
		truthy bool
	}{
		{`{"output":"yes"}`, true},
		{`{}`, false},
		{`[]`, false},
		{`null`, false},
		{`false`, false},
		{`0`, false},
		{`""`, false},
		{`"ok"`, true},
		{`[0]`, true},
		{`1.5`, true},
	}
	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			reply, err := newTestClient(srv.URL, time.Second).Confirm(context.Background(), testSummary)
			require.NoError(t, err)
			assert.Equal(t, tc.truthy, reply.Truthy)
		})
	}
}

func TestConfirmFailures(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"output":`)
		},
		"empty body": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		"trailing data": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{} {}`)
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			_, err := newTestClient(srv.URL, time.Second).Confirm(context.Background(), testSummary)
			require.Error(t, err)
			assert.Equal(t, apperr.KindConfirmationService, apperr.KindOf(err))
		})
	}
}

func TestConfirmTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := newTestClient(srv.URL, 50*time.Millisecond).Confirm(context.Background(), testSummary)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfirmationService, apperr.KindOf(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestConfirmUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url, time.Second).Confirm(context.Background(), testSummary)
	assert.Equal(t, apperr.KindConfirmationService, apperr.KindOf(err))
}

func TestValidateRequiresCredentials(t *testing.T) {
	assert.NoError(t, newTestClient("https://watson.example", 0).Validate())

	for _, cfg := range []config.WatsonConfig{
		{},
		{APIKey: "key"},
		{URL: "https://watson.example"},
		{APIKey: "  ", URL: "https://watson.example"},
	} {
		c := New(cfg, nil)
		err := c.Validate()
		assert.Equal(t, apperr.KindInvalidConfiguration, apperr.KindOf(err))

		_, err = c.Confirm(context.Background(), testSummary)
		assert.Equal(t, apperr.KindInvalidConfiguration, apperr.KindOf(err))
	}

	var nilClient *Client
	assert.Equal(t, apperr.KindInvalidConfiguration, apperr.KindOf(nilClient.Validate()))
}

func TestNewDefaultsTimeout(t *testing.T) {
	c := New(config.WatsonConfig{APIKey: "k", URL: "u"}, nil)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}
