package config_test

import (
	"testing"

	"github.com/caarlos0/env/v6"
	"github.com/doorland/catalog-sync/cmd/syncer/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitParsePlaceholderImages(t *testing.T) {
	t.Setenv("PLACEHOLDER_IMAGES", "https://cdn.doorland.ru/door.jpg,https://cdn.doorland.ru/door-alt.jpg")

	var cfg config.Config
	require.NoError(t, env.Parse(&cfg), "shouldn't return any error")

	assert.Equal(t, []string{
		"https://cdn.doorland.ru/door.jpg",
		"https://cdn.doorland.ru/door-alt.jpg",
	}, cfg.PlaceholderImages, "should split the comma separated list")
}

func TestUnitParseDefaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, env.Parse(&cfg), "shouldn't return any error")

	assert.Empty(t, cfg.PlaceholderImages, "placeholders should be off by default")
	assert.EqualValues(t, 10, cfg.GlobalTaskLimit)
	assert.EqualValues(t, 3, cfg.OperatorTaskLimit)
}
