package redis

import (
	"context"
	"testing"

	"dsjobs/common/cache"

	"github.com/stretchr/testify/assert"
)

func TestEmptyKeyIsRejectedBeforeNetwork(t *testing.T) {
	c := New(cache.Options{RedisAddr: "127.0.0.1:0", KeyPrefix: "t:"})
	defer c.Close()

	ctx := context.Background()
	var s string

	assert.ErrorIs(t, c.Set(ctx, "", "v", 0), cache.ErrInvalidKey)
	assert.ErrorIs(t, c.Get(ctx, "", &s), cache.ErrInvalidKey)
	assert.ErrorIs(t, c.Delete(ctx, ""), cache.ErrInvalidKey)
	_, err := c.Exists(ctx, "")
	assert.ErrorIs(t, err, cache.ErrInvalidKey)
}

func TestKeyPrefixAndDefaults(t *testing.T) {
	c := New(cache.Options{KeyPrefix: "dsjobs:"})
	defer c.Close()

	k, err := c.key("cleaned:1")
	assert.NoError(t, err)
	assert.Equal(t, "dsjobs:cleaned:1", k)
	assert.Equal(t, cache.DefaultOptions().DefaultTTL, c.opts.DefaultTTL)
}
