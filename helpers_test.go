package idcache_test

import (
	"strconv"
	"sync"
	"time"

	"github.com/vearutop/idcache"
)

type user struct {
	idcache.Object
	Name string
}

func newUser(name string) user {
	return user{Object: idcache.MustNewObject(), Name: name}
}

// item has a fixed identity to build colliding values.
type item struct {
	ID    string
	Value int
}

func (i item) Identity() string {
	return i.ID
}

func items(n int) []item {
	res := make([]item, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, item{ID: "item" + strconv.Itoa(i), Value: i})
	}

	return res
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
