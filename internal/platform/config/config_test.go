// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://books.local/")
	t.Setenv("DATABASE_URL", "postgres://localhost/bookdesk")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

/*
TestLoad_Defaults fills unset values and trims the backend URL.
*/
func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "http://books.local", cfg.BackendURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 16, cfg.DefaultPageLimit)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.Origins())
}

/*
TestLoad_Missing rejects unset or blank connection settings.
*/
func TestLoad_Missing(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"blank_backend", "BACKEND_URL", ""},
		{"slash_backend", "BACKEND_URL", " / "},
		{"blank_database", "DATABASE_URL", ""},
		{"blank_redis", "REDIS_URL", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}

/*
TestConfig_Origins splits and trims EXTRA_ORIGINS.
*/
func TestConfig_Origins(t *testing.T) {
	setRequired(t)
	t.Setenv("EXTRA_ORIGINS", " https://admin.example.com, ,http://localhost:3000")
	t.Setenv("BACKEND_RPS", "0")

	_, err := config.Load()
	require.Error(t, err)

	t.Setenv("BACKEND_RPS", "5")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://admin.example.com", "http://localhost:3000"}, cfg.Origins())
}
