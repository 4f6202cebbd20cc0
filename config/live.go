package config

import (
	"errors"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of resolved configs Live keeps per stack.
const DefaultCacheSize = 4096

// Live holds the current Stack for hosts that rebuild configuration while
// running. Resolve calls that started before a swap finish against the old
// stack; later calls see the new one.
//
// Resolved configs are cached by target. The cache belongs to one stack and
// is dropped with it.
type Live struct {
	current   atomic.Pointer[liveState]
	cacheSize int
}

type liveState struct {
	stack *Stack
	cache *lru.Cache[Target, EffectiveConfig]
}

// NewLive wraps an initial stack. cacheSize <= 0 disables caching.
func NewLive(stack *Stack, cacheSize int) (*Live, error) {
	if stack == nil {
		return nil, errors.New("live config requires a stack")
	}
	l := &Live{cacheSize: cacheSize}
	st, err := l.newState(stack)
	if err != nil {
		return nil, err
	}
	l.current.Store(st)
	return l, nil
}

func (l *Live) newState(stack *Stack) (*liveState, error) {
	st := &liveState{stack: stack}
	if l.cacheSize > 0 {
		cache, err := lru.New[Target, EffectiveConfig](l.cacheSize)
		if err != nil {
			return nil, err
		}
		st.cache = cache
	}
	return st, nil
}

// Stack returns the current stack.
func (l *Live) Stack() *Stack {
	return l.current.Load().stack
}

// Swap installs a new stack and returns the previous one.
func (l *Live) Swap(stack *Stack) (*Stack, error) {
	if stack == nil {
		return nil, errors.New("live config requires a stack")
	}
	st, err := l.newState(stack)
	if err != nil {
		return nil, err
	}
	return l.current.Swap(st).stack, nil
}

// Reload rebuilds the stack and swaps it in. When build fails the current
// stack stays in place and the error is returned.
func (l *Live) Reload(build func() (*Stack, error)) error {
	stack, err := build()
	if err != nil {
		return err
	}
	_, err = l.Swap(stack)
	return err
}

// Resolve resolves a path against the current stack.
func (l *Live) Resolve(path string) EffectiveConfig {
	return l.ResolveTarget(Target{Path: path})
}

// ResolveTarget resolves a target against the current stack.
func (l *Live) ResolveTarget(t Target) EffectiveConfig {
	st := l.current.Load()
	if st.cache == nil {
		return st.stack.ResolveTarget(t)
	}
	if cfg, ok := st.cache.Get(t); ok {
		return cfg
	}
	cfg := st.stack.ResolveTarget(t)
	st.cache.Add(t, cfg)
	return cfg
}
