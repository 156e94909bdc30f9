package cache

import (
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ Cache = (*ViewCache)(nil)

// ViewCache memoizes computed analysis views. Keys must carry the dataset
// version, so a reloaded dataset never serves stale views.
type ViewCache struct {
	mainCache *freecache.Cache
	ttl       time.Duration
}

func NewViewCache(sizeMB int, ttl time.Duration) *ViewCache {
	return &ViewCache{
		mainCache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:       ttl,
	}
}

func (vc *ViewCache) Get(key string) ([]byte, bool) {
	value, err := vc.mainCache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return value, true
}

func (vc *ViewCache) Set(key string, value []byte) bool {
	if err := vc.mainCache.Set([]byte(key), value, int(vc.ttl.Seconds())); err != nil {
		// freecache refuses entries larger than 1/1024 of its size
		log.Debugf("view cache: skip entry of %d bytes: %s", len(value), err)
		return false
	}
	return true
}

func (vc *ViewCache) Clear() {
	vc.mainCache.Clear()
}
