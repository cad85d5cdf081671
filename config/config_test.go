package config

import (
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestLoad(t *testing.T) {
	t.Setenv("STORE_URL", "http://store.example:5984")
	t.Setenv("STORE_DB", "")
	t.Setenv("DOC_SERVICE_URL", "http://ds.example")
	t.Setenv("DOC_SERVICE_TOKEN", "secret")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("METRICS_ADDR", "")

	cfg, err := Load()

	assert.NoError(t, err)
	check.Equal(t, "http://store.example:5984", cfg.StoreURL)
	check.Equal(t, "auctions", cfg.StoreDB)
	check.Equal(t, "http://ds.example", cfg.DocServiceURL)
	check.Equal(t, "secret", cfg.DocServiceToken)
	check.Equal(t, "info", cfg.LogLevel)
	check.True(t, cfg.LogPretty)
}

func TestLoad_RequiresStoreURL(t *testing.T) {
	t.Setenv("STORE_URL", "")

	_, err := Load()

	check.Error(t, err)
}
