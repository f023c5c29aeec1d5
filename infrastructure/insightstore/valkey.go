package insightstore

import (
	"context"
	"fmt"
	"strings"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
	"github.com/hackatransparency/alfred-vision/infrastructure/valkey"
	valkeylib "github.com/valkey-io/valkey-go"
)

// ValkeyStore keeps insights in a shared Valkey instance so several app
// replicas can serve the same cache. All entries live under the client's
// key prefix; the server's OOM condition maps to ErrQuotaExceeded so the
// cache layer can run its sweep-and-retry path.
type ValkeyStore struct {
	client *valkey.Client
}

func NewValkeyStore(client *valkey.Client) *ValkeyStore {
	return &ValkeyStore{client: client}
}

func (s *ValkeyStore) inner() valkeylib.Client {
	return s.client.Inner()
}

func (s *ValkeyStore) fullKey(key string) string {
	return s.client.Key(key)
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := s.inner().B().Get().Key(s.fullKey(key)).Build()
	value, err := s.inner().Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get insight: %w", err)
	}
	return value, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, key, value string) error {
	cmd := s.inner().B().Set().Key(s.fullKey(key)).Value(value).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		if strings.Contains(err.Error(), "OOM") {
			return domainInsight.ErrQuotaExceeded
		}
		return fmt.Errorf("failed to save insight: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Delete(ctx context.Context, key string) error {
	cmd := s.inner().B().Del().Key(s.fullKey(key)).Build()
	if err := s.inner().Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
	}
	return nil
}

func (s *ValkeyStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := s.inner().B().Scan().Cursor(cursor).Match(s.fullKey(prefix) + "*").Count(100).Build()
		result, err := s.inner().Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to scan insights: %w", err)
		}

		for _, full := range result.Elements {
			keys = append(keys, strings.TrimPrefix(full, s.client.KeyPrefix()))
		}
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}
