package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"loanrisk-backend/pkg/id"
)

const keyPrefix = "idemp"

var reUUID = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[1-8][a-f0-9]{3}-[89ab][a-f0-9]{3}-[a-f0-9]{12}$`)

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

func buildKey(method, path, caller, idemKey string) string {
	return strings.Join([]string{keyPrefix, strings.ToLower(method), path, caller, idemKey}, ":")
}

// validKey accepts a lowercase UUID or an id shaped like the ones this
// service issues.
func validKey(k string) bool { return reUUID.MatchString(k) || id.Valid(k) }

// parseRequestAt reads epoch seconds, epoch milliseconds or RFC3339 with
// an explicit zone. Zone-less timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be epoch (s/ms) or RFC3339 with timezone", HeaderRequestAt)
	}
	return t.UTC(), nil
}

// entryStore keeps idempotency entries as JSON values in redis.
type entryStore struct {
	rdb redis.Cmdable
}

// reserve writes an in-progress entry unless the key is already taken.
func (s entryStore) reserve(ctx context.Context, key string, e idempEntry) (bool, error) {
	return s.rdb.SetNX(ctx, key, s.encode(e), provisionalLockTTL).Result()
}

func (s entryStore) load(ctx context.Context, key string) (idempEntry, error) {
	var e idempEntry
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

// finish replaces the in-progress entry with the recorded response.
func (s entryStore) finish(ctx context.Context, key string, e idempEntry, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, s.encode(e), ttl).Err()
}

// release drops the entry so the request can be retried.
func (s entryStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (entryStore) encode(e idempEntry) []byte {
	b, _ := json.Marshal(e)
	return b
}
