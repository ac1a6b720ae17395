package overpass_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/UnknownOlympus/florist/internal/overpass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func TestClient_Interpret(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	query := overpass.BuildQuery("10.35,106.35,11.16,107.02", overpass.QueryOptions{RequireName: true})

	t.Run("successful query", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodPost, req.Method)
				assert.Equal(t, overpass.DefaultEndpoint, req.URL.String())
				assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
				assert.NotEmpty(t, req.Header.Get("User-Agent"))

				body, err := io.ReadAll(req.Body)
				require.NoError(t, err)
				form, err := url.ParseQuery(string(body))
				require.NoError(t, err)
				assert.Equal(t, query, form.Get("data"))

				responseBody := `{"version":0.6,"elements":[{"type":"node","id":42,"lat":10.7,"lon":106.7}]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		client := overpass.NewClientWithHTTP(mockClient, "", logger)
		resp, err := client.Interpret(ctx, query)

		require.NoError(t, err)
		require.Len(t, resp.Elements, 1)
		assert.Equal(t, int64(42), resp.Elements[0].ID)
	})

	t.Run("custom endpoint", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "https://overpass.kumi.systems/api/interpreter", req.URL.String())
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`{"elements":[]}`)),
				}, nil
			},
		}

		client := overpass.NewClientWithHTTP(mockClient, "https://overpass.kumi.systems/api/interpreter", logger)
		resp, err := client.Interpret(ctx, query)

		require.NoError(t, err)
		assert.Empty(t, resp.Elements)
		assert.Equal(t, "https://overpass.kumi.systems/api/interpreter", client.Endpoint())
	})

	t.Run("non-2xx status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(bytes.NewBufferString(`rate limited`)),
				}, nil
			},
		}

		client := overpass.NewClientWithHTTP(mockClient, "", logger)
		resp, err := client.Interpret(ctx, query)

		require.Error(t, err)
		require.Nil(t, resp)
		assert.Contains(t, err.Error(), "overpass API returned status 429")
	})

	t.Run("invalid JSON", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`<html>busy</html>`)),
				}, nil
			},
		}

		client := overpass.NewClientWithHTTP(mockClient, "", logger)
		resp, err := client.Interpret(ctx, query)

		require.Error(t, err)
		require.Nil(t, resp)
		assert.Contains(t, err.Error(), "failed to decode overpass response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		client := overpass.NewClientWithHTTP(mockClient, "", logger)
		resp, err := client.Interpret(ctx, query)

		require.ErrorIs(t, err, assert.AnError)
		require.Nil(t, resp)
		assert.Contains(t, err.Error(), "failed to execute overpass request")
	})
}

func TestNewClient(t *testing.T) {
	client := overpass.NewClient("", 5*time.Second, slog.Default())

	require.NotNil(t, client)
	assert.Equal(t, overpass.DefaultEndpoint, client.Endpoint())
}
