package locations_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/florist/internal/locations"
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

const smallTable = `{
	"Hà Nội": {"bbox": "20.56,105.29,21.39,106.02", "center": [21.0285, 105.8542]},
	"TP. Hồ Chí Minh": {"bbox": "10.35,106.35,11.16,107.02", "center": [10.7769, 106.7009]}
}`

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("embedded table", func(t *testing.T) {
		loader := locations.NewLoader(logger, "")

		table, err := loader.Load(ctx, "")

		require.NoError(t, err)
		assert.Positive(t, table.Len())
		loc, ok := table.Get("TP. Hồ Chí Minh")
		require.True(t, ok)
		assert.Equal(t, "10.35,106.35,11.16,107.02", loc.BBox)
		assert.InEpsilon(t, 10.7769, loc.Center.Latitude, 0.0001)
		assert.InEpsilon(t, 106.7009, loc.Center.Longitude, 0.0001)
	})

	t.Run("every embedded bbox parses", func(t *testing.T) {
		table, err := locations.NewLoader(logger, "").Load(ctx, "")
		require.NoError(t, err)

		for _, name := range table.Names() {
			loc, _ := table.Get(name)
			_, err = locations.ParseBBox(loc.BBox)
			require.NoError(t, err, name)
		}
	})

	t.Run("file source", func(t *testing.T) {
		defer filet.CleanUp(t)
		file := filet.TmpFile(t, "", smallTable)

		table, err := locations.NewLoader(logger, "").Load(ctx, file.Name())

		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"Hà Nội", "TP. Hồ Chí Minh"}, table.Names())
	})

	t.Run("missing file", func(t *testing.T) {
		table, err := locations.NewLoader(logger, "").Load(ctx, "/does/not/exist.json")

		require.Nil(t, table)
		require.ErrorIs(t, err, locations.ErrTableUnavailable)
		assert.Contains(t, err.Error(), "failed to read location file")
	})

	t.Run("malformed file", func(t *testing.T) {
		defer filet.CleanUp(t)
		file := filet.TmpFile(t, "", `{"Hà Nội": "oops"`)

		table, err := locations.NewLoader(logger, "").Load(ctx, file.Name())

		require.Nil(t, table)
		require.ErrorIs(t, err, locations.ErrTableUnavailable)
		assert.Contains(t, err.Error(), "failed to decode location table")
	})

	t.Run("empty object", func(t *testing.T) {
		defer filet.CleanUp(t)
		file := filet.TmpFile(t, "", `{}`)

		table, err := locations.NewLoader(logger, "").Load(ctx, file.Name())

		require.Nil(t, table)
		require.ErrorIs(t, err, locations.ErrTableUnavailable)
	})

	t.Run("center is not a pair", func(t *testing.T) {
		defer filet.CleanUp(t)
		file := filet.TmpFile(t, "", `{"Huế": {"bbox": "1,2,3,4", "center": [16.4]}}`)

		_, err := locations.NewLoader(logger, "").Load(ctx, file.Name())

		require.ErrorIs(t, err, locations.ErrTableUnavailable)
	})

	t.Run("url source", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodGet, req.Method)
				assert.Equal(t, "https://example.com/vietnam_locations.json", req.URL.String())
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(smallTable)),
				}, nil
			},
		}

		loader := locations.NewLoaderWithClient(mockClient, logger, "")
		table, err := loader.Load(ctx, "https://example.com/vietnam_locations.json")

		require.NoError(t, err)
		assert.Equal(t, 2, table.Len())
	})

	t.Run("url returns non-2xx", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusNotFound,
					Body:       io.NopCloser(bytes.NewBufferString(`not found`)),
				}, nil
			},
		}

		loader := locations.NewLoaderWithClient(mockClient, logger, "")
		table, err := loader.Load(ctx, "https://example.com/vietnam_locations.json")

		require.Nil(t, table)
		require.ErrorIs(t, err, locations.ErrTableUnavailable)
		assert.Contains(t, err.Error(), "status: 404")
	})

	t.Run("url unreachable", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		loader := locations.NewLoaderWithClient(mockClient, logger, "")
		_, err := loader.Load(ctx, "http://example.com/table.json")

		require.ErrorIs(t, err, locations.ErrTableUnavailable)
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestEmbedded(t *testing.T) {
	assert.Contains(t, string(locations.Embedded()), "TP. Hồ Chí Minh")
}
