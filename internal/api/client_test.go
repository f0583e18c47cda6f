package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	_, err = NewClient("not a url", nil)
	assert.Error(t, err)
}

func TestClient_Headers(t *testing.T) {
	var got http.Header
	var path string
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.Path
		_, _ = io.WriteString(w, `{"Success":true,"Data":{}}`)
	})

	token := ""
	c, err := NewClient(srv.URL+"/api/", TokenFunc(func() string { return token }))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "/me", nil)
	require.NoError(t, err)
	assert.Equal(t, "/api/me", path)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Empty(t, got.Get("Authorization"), "no token means no authorization header")
	assert.NotEmpty(t, got.Get(requestIDHeader))

	token = "tok-123"
	_, err = c.Get(context.Background(), "/me", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
}

func TestClient_PostBody(t *testing.T) {
	var body map[string]string
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"Success":true}`)
	})

	c, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "/login", map[string]string{"login": "ada", "password": "pw"}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"login": "ada", "password": "pw"}, body)
}

func TestClient_ResultVariants(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, resp *Response, err error)
	}{
		{
			name:   "ok decodes data",
			status: http.StatusOK,
			body:   `{"Success":true,"Data":{"name":"Ada"}}`,
			check: func(t *testing.T, resp *Response, err error) {
				require.NoError(t, err)
				assert.True(t, resp.OK())
			},
		},
		{
			name:   "missing success counts as ok",
			status: http.StatusOK,
			body:   `{"Data":[]}`,
			check: func(t *testing.T, resp *Response, err error) {
				require.NoError(t, err)
				assert.Nil(t, resp.Success)
			},
		},
		{
			name:   "business rejection",
			status: http.StatusOK,
			body:   `{"Success":false,"Message":"Invalid credentials"}`,
			check: func(t *testing.T, resp *Response, err error) {
				var be *BusinessError
				require.ErrorAs(t, err, &be)
				assert.Equal(t, "Invalid credentials", be.Message)
				assert.Equal(t, "Invalid credentials", MessageOf(err))
				assert.False(t, resp.OK())
			},
		},
		{
			name:   "envelope unauthorized as number",
			status: http.StatusOK,
			body:   `{"Success":false,"Status":401}`,
			check: func(t *testing.T, _ *Response, err error) {
				assert.ErrorIs(t, err, ErrSessionExpired)
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "envelope unauthorized as word",
			status: http.StatusOK,
			body:   `{"Success":false,"Status":"Unauthorized"}`,
			check: func(t *testing.T, _ *Response, err error) {
				assert.ErrorIs(t, err, ErrSessionExpired)
			},
		},
		{
			name:   "http 401",
			status: http.StatusUnauthorized,
			body:   `{"message":"Unauthenticated."}`,
			check: func(t *testing.T, resp *Response, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
				assert.NotErrorIs(t, err, ErrSessionExpired)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   `<html>oops</html>`,
			check: func(t *testing.T, resp *Response, err error) {
				var te *TransportError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
				assert.True(t, IsTransport(err))
				assert.NotNil(t, resp)
			},
		},
		{
			name:   "undecodable body",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, _ *Response, err error) {
				assert.True(t, IsTransport(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			c, err := NewClient(srv.URL, nil)
			require.NoError(t, err)

			var out map[string]any
			resp, err := c.Get(context.Background(), "/anything", &out)
			tt.check(t, resp, err)
		})
	}
}

func TestClient_DecodesDataIntoDestination(t *testing.T) {
	srv := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"Success":true,"Data":[{"id":1},{"id":2}]}`)
	})
	c, err := NewClient(srv.URL, nil)
	require.NoError(t, err)

	var out []struct {
		ID int `json:"id"`
	}
	_, err = c.Get(context.Background(), "/cart-list", &out)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[1].ID)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, nil)
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "/me", nil)
	assert.Nil(t, resp)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Zero(t, te.StatusCode)
}
