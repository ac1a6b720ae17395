package mapview_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnknownOlympus/florist/internal/mapview"
	"github.com/UnknownOlympus/florist/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Page(t *testing.T) {
	renderer, err := mapview.NewRenderer()
	require.NoError(t, err)

	cities := []mapview.City{
		{Name: "Cần Thơ", Center: [2]float64{10.0452, 105.7469}},
		{Name: "Hà Nội", Center: [2]float64{21.0285, 105.8542}},
		{Name: "TP. Hồ Chí Minh", Center: [2]float64{10.7769, 106.7009}},
	}

	t.Run("selector with default city", func(t *testing.T) {
		var buf bytes.Buffer
		err = renderer.Page(&buf, mapview.PageData{
			PublicURL:   "https://hoa.example.vn",
			Cities:      cities,
			DefaultCity: "TP. Hồ Chí Minh",
			Options:     mapview.Options{ReverseLookup: true},
		})
		require.NoError(t, err)

		page := buf.String()
		assert.Contains(t, page, "<title>Cửa hàng hoa</title>")
		assert.Contains(t, page, `<meta name="description" content="Danh sách cửa hàng hoa">`)
		assert.Contains(t, page, `<meta property="og:url" content="https://hoa.example.vn">`)
		assert.Contains(t, page, `<option value="TP. Hồ Chí Minh" selected>TP. Hồ Chí Minh</option>`)
		assert.Contains(t, page, `<option value="Cần Thơ">Cần Thơ</option>`)
		assert.Contains(t, page, service.MsgLoading)
		assert.Contains(t, page, `"reverseLookup":true`)
		assert.Contains(t, page, `"center":[10.7769,106.7009]`)
		assert.Contains(t, page, `"zoom":14`)
		assert.Contains(t, page, `"markerIcon":{"url":"/static/florist.svg","size":[32,32],"anchor":[16,32],"popupAnchor":[0,-32]}`)
		assert.Contains(t, page, "icon: floristIcon")
		assert.NotContains(t, page, "og:image")
		assert.NotContains(t, page, service.MsgLocationsUnavailable)
	})

	t.Run("preview image", func(t *testing.T) {
		for _, tc := range []struct {
			name    string
			ogImage string
			want    string
		}{
			{name: "relative to public url", ogImage: "/1200x630.jpg", want: "https://hoa.example.vn/1200x630.jpg"},
			{name: "absolute", ogImage: "https://cdn.example.vn/hoa.jpg", want: "https://cdn.example.vn/hoa.jpg"},
		} {
			t.Run(tc.name, func(t *testing.T) {
				var buf bytes.Buffer
				err := renderer.Page(&buf, mapview.PageData{
					PublicURL:   "https://hoa.example.vn",
					OGImage:     tc.ogImage,
					Cities:      cities,
					DefaultCity: "Hà Nội",
				})
				require.NoError(t, err)

				page := buf.String()
				assert.Contains(t, page, `<meta property="og:image" content="`+tc.want+`">`)
				assert.Contains(t, page, `<meta property="og:image:width" content="1200">`)
				assert.Contains(t, page, `<meta property="og:image:height" content="630">`)
			})
		}
	})

	t.Run("table failed to load", func(t *testing.T) {
		var buf bytes.Buffer
		err = renderer.Page(&buf, mapview.PageData{LoadError: service.MsgLocationsUnavailable})
		require.NoError(t, err)

		page := buf.String()
		assert.Contains(t, page, service.MsgLocationsUnavailable)
		assert.NotContains(t, page, "city-select")
		assert.NotContains(t, page, "leaflet.js")
		assert.NotContains(t, page, "og:url")
	})

	t.Run("city names are escaped", func(t *testing.T) {
		var buf bytes.Buffer
		err = renderer.Page(&buf, mapview.PageData{
			Cities:      []mapview.City{{Name: `<script>alert(1)</script>`}},
			DefaultCity: "Hà Nội",
		})
		require.NoError(t, err)

		assert.NotContains(t, buf.String(), `<option value="<script>`)
		assert.Contains(t, buf.String(), "&lt;script&gt;")
	})
}

func TestStatic(t *testing.T) {
	handler := mapview.Static()

	t.Run("marker icon", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, mapview.MarkerIconPath, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), `width="32" height="32"`)
	})

	t.Run("no directory listing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, mapview.StaticPrefix, nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown asset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/missing.png", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
