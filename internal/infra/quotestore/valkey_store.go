package quotestore

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/lifesure-gateway/internal/domain/quote"
)

// ValkeyStore caches quotes in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "lifesure"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Save(ctx context.Context, q quote.Quote, ttl time.Duration) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.quoteKey(q.ID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Get(ctx context.Context, id string) (quote.Quote, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.quoteKey(id)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return quote.Quote{}, false, nil
		}
		return quote.Quote{}, false, err
	}
	var q quote.Quote
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return quote.Quote{}, false, err
	}
	return q, true, nil
}

func (s *ValkeyStore) Delete(ctx context.Context, id string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.quoteKey(id)).Build()).Error()
}

func (s *ValkeyStore) quoteKey(id string) string {
	return fmt.Sprintf("%s:quote:%s", s.prefix, id)
}

var _ quote.Store = (*ValkeyStore)(nil)
