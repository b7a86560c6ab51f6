package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkaOko/react-trpo/config"
	"github.com/AkaOko/react-trpo/pkg/app"
)

func bootEnv(t *testing.T, env map[string]string) {
	t.Helper()
	base := map[string]string{
		"APP_ENV":            "local",
		"DB_DRIVER":          "sqlite",
		"DATABASE_DSN":       "file:" + t.Name() + "?mode=memory&cache=shared",
		"AUTO_MIGRATE":       "true",
		"CACHE_DRIVER":       "memory",
		"STORAGE_DISK":       "local",
		"STORAGE_LOCAL_ROOT": t.TempDir(),
		"LOG_MONGO_URI":      "",
		"JWT_SECRET":         "",
	}
	for k, v := range env {
		base[k] = v
	}
	for k, v := range base {
		t.Setenv(k, v)
	}
}

func boot(t *testing.T) (a *app.App, err error) {
	t.Helper()
	require.NotPanics(t, func() {
		a, err = app.Boot(context.Background())
	})
	if a != nil {
		t.Cleanup(a.Close)
	}
	return a, err
}

func TestBoot_LocalWithoutSecret(t *testing.T) {
	bootEnv(t, nil)

	a, err := boot(t)
	require.NoError(t, err)
	require.NotNil(t, a.Signer)
	require.NotNil(t, a.Services.Orders)
}

func TestBoot_UnreachableDatabaseReturnsError(t *testing.T) {
	bootEnv(t, map[string]string{
		"DB_DRIVER":    "postgres",
		"DATABASE_DSN": "host=127.0.0.1 port=1 user=jewelry password=jewelry dbname=jewelry sslmode=disable connect_timeout=2",
	})

	a, err := boot(t)
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestBoot_MissingSecretOutsideLocalFails(t *testing.T) {
	bootEnv(t, map[string]string{"APP_ENV": "production"})

	a, err := boot(t)
	assert.ErrorIs(t, err, config.ErrMissingSigningKey)
	assert.Nil(t, a)
}
