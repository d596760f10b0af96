package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrefacil/briefing-backend/config"
)

func TestInit_UnreachableAddrDisablesCache(t *testing.T) {
	err := Init(&config.RedisConfig{Addr: "127.0.0.1:1"})
	require.Error(t, err)

	// A failed Init must not leave a dead client behind: lookups fall through
	// to the provider as silent cache misses instead of dialing on every call
	assert.False(t, Enabled())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	val, err := GetLookup(ctx, "cnpj:12345678000195")
	assert.NoError(t, err)
	assert.Empty(t, val)
	assert.NoError(t, SetLookup(ctx, "cnpj:12345678000195", `{"nome":"X"}`, time.Minute))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	assert.NoError(t, Close())
}

func TestLookupHelpers_NoopWithoutInit(t *testing.T) {
	client = nil

	val, err := GetLookup(context.Background(), "cep:01310100")
	assert.NoError(t, err)
	assert.Empty(t, val)
	assert.NoError(t, SetLookup(context.Background(), "cep:01310100", "{}", time.Minute))
	assert.False(t, Enabled())
}
