// Copyright (c) 2026 Bookdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookdesk/internal/platform/constants"
	"github.com/taibuivan/bookdesk/internal/platform/redis"
)

/*
TestSessionOptions keeps URL settings and applies the session deadlines.
*/
func TestSessionOptions(t *testing.T) {
	options, err := redis.SessionOptions("redis://:pw@cache.local:6380/3")
	require.NoError(t, err)

	assert.Equal(t, "cache.local:6380", options.Addr)
	assert.Equal(t, 3, options.DB)
	assert.Equal(t, "pw", options.Password)
	assert.Equal(t, redis.ClientName, options.ClientName)
	assert.Equal(t, constants.SessionLookupTimeout, options.ReadTimeout)
	assert.True(t, options.ContextTimeoutEnabled)
	assert.Positive(t, options.PoolSize)

	_, err = redis.SessionOptions("http://cache.local")
	assert.Error(t, err)
}
