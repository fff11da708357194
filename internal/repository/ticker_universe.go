package repository

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
)

// FileTickerUniverse is a set loaded once from a newline-delimited file.
type FileTickerUniverse struct {
	set map[string]struct{}
}

// LoadFileTickerUniverse reads path; a missing file is an error.
func LoadFileTickerUniverse(path string) (*FileTickerUniverse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker list: %w", err)
	}
	defer f.Close()
	return ReadTickerUniverse(f)
}

// ReadTickerUniverse parses one ticker per line, ignoring blanks.
func ReadTickerUniverse(r io.Reader) (*FileTickerUniverse, error) {
	set := make(map[string]struct{})
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		t := strings.ToUpper(strings.TrimSpace(sc.Text()))
		if t == "" {
			continue
		}
		set[t] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ticker list: %w", err)
	}
	return &FileTickerUniverse{set: set}, nil
}

func (u *FileTickerUniverse) Contains(_ context.Context, ticker string) (bool, error) {
	_, ok := u.set[ticker]
	return ok, nil
}

func (u *FileTickerUniverse) Size(context.Context) (int, error) {
	return len(u.set), nil
}

// RedisTickerUniverse keeps the set under <prefix>:tickers.
type RedisTickerUniverse struct {
	cli redis.UniversalClient
	key string
}

func NewRedisTickerUniverse(cli redis.UniversalClient, prefix string) *RedisTickerUniverse {
	return &RedisTickerUniverse{cli: cli, key: prefix + ":tickers"}
}

// Key is the Redis set holding the tickers.
func (u *RedisTickerUniverse) Key() string { return u.key }

func (u *RedisTickerUniverse) Contains(ctx context.Context, ticker string) (bool, error) {
	ok, err := u.cli.SIsMember(ctx, u.key, ticker).Result()
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", u.key, err)
	}
	return ok, nil
}

func (u *RedisTickerUniverse) Size(ctx context.Context) (int, error) {
	n, err := u.cli.SCard(ctx, u.key).Result()
	if err != nil {
		return 0, fmt.Errorf("scard %s: %w", u.key, err)
	}
	return int(n), nil
}

// Replace atomically swaps the stored set for tickers.
func (u *RedisTickerUniverse) Replace(ctx context.Context, tickers []string) error {
	members := make([]interface{}, len(tickers))
	for i, t := range tickers {
		members[i] = t
	}
	tmp := u.key + ":staging"
	_, err := u.cli.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, tmp)
		if len(members) > 0 {
			p.SAdd(ctx, tmp, members...)
			p.Rename(ctx, tmp, u.key)
		} else {
			p.Del(ctx, u.key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace %s: %w", u.key, err)
	}
	return nil
}
