package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

const (
	cacheNamespace = "alfred_vision"
	cacheVersion   = "v1"
	cacheExpiry    = 7 * 24 * time.Hour
)

// InsightCache wraps a flat KVStore with the versioned, expiring entry
// layout the gallery depends on. Reads and writes never fail the caller:
// a broken cache degrades to a miss, a failed write degrades to no-op.
type InsightCache struct {
	store domainInsight.KVStore
	now   func() time.Time
}

func NewInsightCache(store domainInsight.KVStore) *InsightCache {
	return &InsightCache{store: store, now: time.Now}
}

func cacheKey(imageURL string, lang domainInsight.Language) string {
	return fmt.Sprintf("%s_%s_%s_%s", cacheNamespace, cacheVersion, imageURL, lang)
}

// Get returns the cached insight for an image/language pair, or a miss.
// Entries with a stale version, past expiry, or an undecodable body are
// deleted on sight and reported as misses.
func (c *InsightCache) Get(ctx context.Context, imageURL string, lang domainInsight.Language) (*domainInsight.Insight, bool) {
	key := cacheKey(imageURL, lang)

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		logrus.WithError(err).Warnf("[CACHE] read failed for %s", key)
		return nil, false
	}
	if !ok {
		logrus.Debugf("[CACHE] MISS %s (%s)", imageURL, lang)
		return nil, false
	}

	var entry domainInsight.CacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		logrus.Warnf("[CACHE] corrupt entry %s, clearing", key)
		_ = c.store.Delete(ctx, key)
		return nil, false
	}
	if entry.Version != cacheVersion {
		logrus.Debugf("[CACHE] version mismatch for %s, clearing", key)
		_ = c.store.Delete(ctx, key)
		return nil, false
	}
	if c.now().UnixMilli()-entry.CachedAt > cacheExpiry.Milliseconds() {
		logrus.Debugf("[CACHE] expired entry %s, clearing", key)
		_ = c.store.Delete(ctx, key)
		return nil, false
	}

	logrus.Debugf("[CACHE] HIT %s (%s): %q", imageURL, lang, entry.Insight.Title)
	return &entry.Insight, true
}

// Put stores an insight. A full store triggers one sweep of stale entries
// followed by a single retry; if that also fails the write is dropped.
func (c *InsightCache) Put(ctx context.Context, imageURL string, lang domainInsight.Language, in domainInsight.Insight) {
	key := cacheKey(imageURL, lang)
	entry := domainInsight.CacheEntry{
		Insight:  in,
		Version:  cacheVersion,
		CachedAt: c.now().UnixMilli(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		logrus.WithError(err).Errorf("[CACHE] marshal failed for %s", key)
		return
	}

	err = c.store.Set(ctx, key, string(raw))
	if err == nil {
		logrus.Debugf("[CACHE] SAVED %s (%s): %q", imageURL, lang, in.Title)
		return
	}
	if !errors.Is(err, domainInsight.ErrQuotaExceeded) {
		logrus.WithError(err).Warnf("[CACHE] write failed for %s", key)
		return
	}

	cleared := c.sweep(ctx)
	logrus.Infof("[CACHE] storage full, cleared %d stale entries", cleared)
	if err := c.store.Set(ctx, key, string(raw)); err != nil {
		logrus.WithError(err).Warnf("[CACHE] write failed for %s after sweep", key)
	}
}

// sweep deletes every namespaced entry that is expired, carries a stale
// version, or cannot be decoded. Healthy entries are left alone.
func (c *InsightCache) sweep(ctx context.Context) int {
	keys, err := c.store.Keys(ctx, cacheNamespace+"_")
	if err != nil {
		logrus.WithError(err).Warn("[CACHE] sweep listing failed")
		return 0
	}

	nowMillis := c.now().UnixMilli()
	cleared := 0
	for _, key := range keys {
		raw, ok, err := c.store.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		var entry domainInsight.CacheEntry
		stale := json.Unmarshal([]byte(raw), &entry) != nil ||
			entry.Version != cacheVersion ||
			nowMillis-entry.CachedAt > cacheExpiry.Milliseconds()
		if stale {
			if err := c.store.Delete(ctx, key); err == nil {
				cleared++
			}
		}
	}
	return cleared
}

// Clear removes every entry in the namespace and reports how many went.
func (c *InsightCache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, cacheNamespace+"_")
	if err != nil {
		return 0, err
	}
	cleared := 0
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err == nil {
			cleared++
		}
	}
	logrus.Infof("[CACHE] cleared all %d entries", cleared)
	return cleared, nil
}

// Stats reports entry count and payload size for the namespace.
func (c *InsightCache) Stats(ctx context.Context) (domainInsight.CacheStats, error) {
	keys, err := c.store.Keys(ctx, cacheNamespace+"_")
	if err != nil {
		return domainInsight.CacheStats{}, err
	}

	var totalSize int64
	entries := 0
	for _, key := range keys {
		raw, ok, err := c.store.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		entries++
		totalSize += int64(len(raw))
	}

	return domainInsight.CacheStats{
		Entries:   entries,
		TotalSize: totalSize,
		HumanSize: humanize.Bytes(uint64(totalSize)),
	}, nil
}
