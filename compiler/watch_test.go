package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/graphgen/compiler/gen"
)

func TestWatch(t *testing.T) {
	DebounceInterval = 10 * time.Millisecond
	shop, err := os.ReadFile("testdata/shop.yaml")
	require.NoError(t, err)
	broken, err := os.ReadFile("testdata/broken.yaml")
	require.NoError(t, err)

	index := filepath.Join(t.TempDir(), "index.yaml")
	require.NoError(t, os.WriteFile(index, shop, 0o644))
	cfg := config(t, index)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan *Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, func(res *Result, err error) {
			assert.NoError(t, err)
			results <- res
		})
	}()

	next := func() *Result {
		select {
		case res := <-results:
			return res
		case <-time.After(5 * time.Second):
			require.FailNow(t, "no generation run")
			return nil
		}
	}

	first := next()
	assert.Empty(t, first.Errors)
	assert.True(t, first.Graph.HasType("com.acme.model.Person"))

	tmp := filepath.Join(filepath.Dir(index), "index.tmp")
	require.NoError(t, os.WriteFile(tmp, broken, 0o644))
	require.NoError(t, os.Rename(tmp, index))

	second := next()
	assert.NotEmpty(t, second.Errors)
	assert.False(t, second.Graph.HasType("com.acme.model.Person"))
	assert.NotEqual(t, first.RunID, second.RunID)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "watch did not stop")
	}
}

func TestWatchRequiresIndex(t *testing.T) {
	err := Watch(context.Background(), &gen.Config{}, nil)
	assert.True(t, gen.IsConfigError(err))
}
