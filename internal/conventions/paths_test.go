package conventions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bopbridge/internal/conventions"
)

func TestDefaultPaths(t *testing.T) {
	assert.Equal(t, "/home/user/.bopbridge", conventions.DataDir("/home/user"))
	assert.Equal(t, "/home/user/.bopbridge/bebopc.wasm", conventions.DefaultWASMPath("/home/user"))
	assert.Equal(t, "/home/user/.bopbridge/cache.db", conventions.DefaultCacheDBPath("/home/user"))
}
