package cache

import "sync"

var _ Cache = (*TestCache)(nil)

// TestCache is a map backed Cache which never evicts, for tests.
type TestCache struct {
	cache map[string][]byte
	mutex sync.Mutex
	Hits  int
}

func NewTestCache() *TestCache {
	return &TestCache{
		cache: make(map[string][]byte),
	}
}

func (tc *TestCache) Get(key string) ([]byte, bool) {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if val, ok := tc.cache[key]; ok {
		tc.Hits++
		return val, true
	}
	return nil, false
}

func (tc *TestCache) Set(key string, value []byte) bool {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.cache[key] = value
	return true
}

func (tc *TestCache) Len() int {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	return len(tc.cache)
}

func (tc *TestCache) Clear() {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	tc.cache = make(map[string][]byte)
}
