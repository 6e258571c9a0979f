package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/godilite/assessment-server/pkg/cache"
)

func TestNew_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := cache.New(ctx,
		cache.WithAddress("127.0.0.1:1"),
		cache.WithDialTimeout(100*time.Millisecond),
	)

	assert.Nil(t, c)
	assert.ErrorContains(t, err, "ping redis at 127.0.0.1:1")
}
