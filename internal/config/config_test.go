package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8085", cfg.APIBaseURL)
	assert.Equal(t, 15, cfg.LowStockThreshold)
	assert.Equal(t, 8, cfg.SearchSuggestionLimit)
	assert.Equal(t, "$", cfg.CurrencySymbol)
	assert.Equal(t, "minimart_session", cfg.SessionCookie)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://backend:9000")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CATALOG_CACHE_SECONDS", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://backend:9000", cfg.APIBaseURL)
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Second, cfg.CatalogCacheTTL())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSOrigins: " http://a.test , ,http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}
