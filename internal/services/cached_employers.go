package services

import (
	"context"
	gocache "github.com/patrickmn/go-cache"
	"strconv"
	"time"
)

type employerChecker interface {
	EmployerExists(ctx context.Context, id int) bool
}

// CachedEmployers remembers employers found on hh so repeated ids hit the api once.
// Negative answers are not cached.
type CachedEmployers struct {
	checker employerChecker
	cache   *gocache.Cache
}

func NewCachedEmployers(checker employerChecker) *CachedEmployers {
	return &CachedEmployers{checker: checker, cache: gocache.New(10*time.Minute, 20*time.Minute)}
}

func (c CachedEmployers) EmployerExists(ctx context.Context, id int) bool {
	key := strconv.Itoa(id)
	if _, found := c.cache.Get(key); found {
		return true
	}

	exists := c.checker.EmployerExists(ctx, id)
	if exists {
		c.cache.SetDefault(key, struct{}{})
	}
	return exists
}
