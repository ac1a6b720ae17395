package service_test

import (
	"context"
	"testing"

	"github.com/UnknownOlympus/florist/internal/metrics"
	"github.com/UnknownOlympus/florist/internal/models"
	"github.com/UnknownOlympus/florist/internal/service"
	"github.com/UnknownOlympus/florist/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAddressResolver_Resolve(t *testing.T) {
	ctx := t.Context()
	shops := []models.Shop{
		{ID: 1, Lat: 10.77691, Lon: 106.70091, Name: "Hoa Xinh"},
		{ID: 2, Lat: 10.78, Lon: 106.69},
		{ID: 3, Lat: 10.79, Lon: 106.68},
	}

	t.Run("resolves every shop and keeps the order", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := service.NewAddressResolver(discardLogger(), provider, "nominatim", appMetrics, 2)

		provider.On("ReverseGeocode", mock.Anything, shops[0].Coordinates()).Return("Quận 1", nil).Once()
		provider.On("ReverseGeocode", mock.Anything, shops[1].Coordinates()).Return("Quận 3", nil).Once()
		provider.On("ReverseGeocode", mock.Anything, shops[2].Coordinates()).Return("Bình Thạnh", nil).Once()

		resolved := resolver.Resolve(ctx, shops)

		require.Len(t, resolved, 3)
		assert.Equal(t, "Quận 1", resolved[0].Address)
		assert.Equal(t, "Quận 3", resolved[1].Address)
		assert.Equal(t, "Bình Thạnh", resolved[2].Address)
		for i, shop := range resolved {
			assert.True(t, shop.Resolved)
			assert.Equal(t, shops[i], shop.Shop)
		}
		assert.InDelta(t, 0, testutil.ToFloat64(appMetrics.ActiveWorkers), 0)
	})

	t.Run("failed lookup keeps the coordinates", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := service.NewAddressResolver(discardLogger(), provider, "nominatim", appMetrics, 4)

		provider.On("ReverseGeocode", mock.Anything, shops[0].Coordinates()).Return("", assert.AnError).Once()

		resolved := resolver.Resolve(ctx, shops[:1])

		require.Len(t, resolved, 1)
		assert.False(t, resolved[0].Resolved)
		assert.Equal(t, "10.7769, 106.7009", resolved[0].Address)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.UpstreamErrors.WithLabelValues(metrics.APIReverse)), 0)
	})

	t.Run("canceled context skips lookups", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		resolver := service.NewAddressResolver(discardLogger(), provider, "nominatim",
			metrics.NewMetrics(prometheus.NewRegistry()), 0)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		resolved := resolver.Resolve(canceled, shops)

		require.Len(t, resolved, 3)
		for _, shop := range resolved {
			assert.False(t, shop.Resolved)
		}
		provider.AssertNotCalled(t, "ReverseGeocode", mock.Anything, mock.Anything)
	})

	t.Run("no shops", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		resolver := service.NewAddressResolver(discardLogger(), provider, "google",
			metrics.NewMetrics(prometheus.NewRegistry()), 2)

		assert.Empty(t, resolver.Resolve(ctx, nil))
	})
}

func TestAddressResolver_Lookup(t *testing.T) {
	ctx := t.Context()
	point := models.Coordinates{Latitude: 21.0285, Longitude: 105.8542}

	provider := mocks.NewProvider(t)
	resolver := service.NewAddressResolver(discardLogger(), provider, "nominatim",
		metrics.NewMetrics(prometheus.NewRegistry()), 1)

	provider.On("ReverseGeocode", ctx, point).Return("Hoàn Kiếm, Hà Nội", nil).Once()
	provider.On("ReverseGeocode", ctx, point).Return("", assert.AnError).Once()

	address, err := resolver.Lookup(ctx, point)
	require.NoError(t, err)
	assert.Equal(t, "Hoàn Kiếm, Hà Nội", address)

	_, err = resolver.Lookup(ctx, point)
	require.ErrorIs(t, err, service.ErrLookupFailed)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, service.MsgLookupFailed, service.UserMessage(err, ""))
}
