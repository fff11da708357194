package cache

import (
	"context"
	"time"
)

// BytesCache stores raw bytes with a TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// StockInfoKey is the cache key of a served forecast for ticker.
func StockInfoKey(prefix, ticker string) string {
	return prefix + ":stock_info:" + ticker
}
