package idcache_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bool64/ctxd"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vearutop/idcache"
)

func TestNewHCLogger(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := idcache.NewHCLogger(hclog.New(&hclog.LoggerOptions{
		Name:   "idcache",
		Output: buf,
		Level:  hclog.Debug,
	}))

	ctx := context.Background()
	logger.Debug(ctx, "debug message", "id", "abc")
	logger.Important(ctx, "important message")
	logger.Error(ctx, "error message", "name", "users")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] idcache: debug message: id=abc")
	assert.Contains(t, out, "[INFO]  idcache: important message")
	assert.Contains(t, out, "[ERROR] idcache: error message: name=users")
}

func TestNewHCLogger_sweep(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := idcache.NewHCLogger(hclog.New(&hclog.LoggerOptions{Output: buf, Level: hclog.Debug}))

	clock := newFakeClock()
	s := idcache.NewStore[item](idcache.StoreConfig{Name: "logged", Now: clock.Now, Logger: logger})
	s.AddOrUpdate(item{ID: "a"})
	clock.Advance(time.Minute)

	removed := idcache.Sweep[item](context.Background(), idcache.NewSweeper(idcache.SweeperConfig{Logger: logger}),
		s, idcache.TTL[item](time.Second))
	require.Equal(t, 1, removed)

	assert.Contains(t, buf.String(), "added to store: name=logged id=a")
	assert.Contains(t, buf.String(), "removed stale entries: name=logged")
}

func TestNewHCLogger_contextFields(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := idcache.NewHCLogger(hclog.New(&hclog.LoggerOptions{Output: buf, Level: hclog.Debug}))

	ctx := ctxd.AddFields(context.Background(), "request", "r1")

	logger.Warn(ctx, "warn message", "name", "users")
	logger.Info(context.Background(), "plain message")

	clock := newFakeClock()
	s := idcache.NewStore[item](idcache.StoreConfig{Name: "logged", Now: clock.Now})
	s.AddOrUpdate(item{ID: "a"})
	clock.Advance(time.Minute)

	idcache.Sweep[item](ctx, idcache.NewSweeper(idcache.SweeperConfig{Logger: logger}), s, idcache.TTL[item](time.Second))

	out := buf.String()
	assert.Contains(t, out, "warn message: request=r1 name=users")
	assert.Contains(t, out, "plain message\n")
	assert.Contains(t, out, "removed stale entries: request=r1 name=logged")
	assert.Contains(t, out, "sweep finished: request=r1 name=logged")
}
