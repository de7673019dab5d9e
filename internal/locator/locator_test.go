package locator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motocare/motocare/internal/config"
)

func TestSimulatedClientSearch(t *testing.T) {
	client := NewSimulatedClient(&config.LocatorConfig{DefaultRadius: 5000})

	results, err := client.Search(context.Background(), "Jakarta Pusat", 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "Bengkel Ahli Motor (Simulasi)", results[0].Name)
	assert.InDelta(t, 4.5, results[0].Rating, 0.001)
}

func TestResolveLocation(t *testing.T) {
	lat, lng := resolveLocation("Surabaya Timur")
	assert.InDelta(t, -7.257472, lat, 0.001)
	assert.InDelta(t, 112.752090, lng, 0.001)

	lat, lng = resolveLocation("somewhere else")
	assert.InDelta(t, -6.175110, lat, 0.001)
	assert.InDelta(t, 106.865036, lng, 0.001)
}
