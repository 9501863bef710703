package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreSQLite)
	t.Setenv("AUTH_PROVIDER", AuthJWT)
	t.Setenv("STORAGE_DRIVER", StorageNone)
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreSQLite, cfg.StoreDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.UsesFirebase())
}

func TestLoadRejectsIncompleteDrivers(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", AuthJWT)
	t.Setenv("STORAGE_DRIVER", StorageNone)

	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "mongo")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadFirestoreNeedsProject(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", AuthJWT)
	t.Setenv("STORAGE_DRIVER", StorageNone)
	t.Setenv("STORE_DRIVER", StoreFirestore)
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("FIREBASE_PROJECT_ID", "skillswap-dev")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.UsesFirebase())
}
