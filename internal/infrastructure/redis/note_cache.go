package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/noteplus/internal/domain"
)

const (
	noteListKeyPrefix    = "noteplus:notes:owner:"
	noteVersionKeyPrefix = "noteplus:notes:ver:"

	// versionTTL outlives any in-flight list read by a wide margin.
	versionTTL = 24 * time.Hour
)

// KEYS[1]=version key, KEYS[2]=list key
// ARGV[1]=expected version, ARGV[2]=payload, ARGV[3]=ttl ms
// returns 1 when stored, 0 when the version moved on
var setIfVersionScript = goredis.NewScript(`
local v = redis.call("GET", KEYS[1])
if not v then v = "0" end
if v ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// KEYS[1]=version key, KEYS[2]=list key, ARGV[1]=version ttl ms
var invalidateScript = goredis.NewScript(`
redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
redis.call("DEL", KEYS[2])
return 1
`)

// cachedNote is the cache wire shape; domain.Note has no json tags.
type cachedNote struct {
	ID         string     `json:"id"`
	OwnerEmail string     `json:"owner_email"`
	Category   string     `json:"category"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// NoteCache caches each owner's note list for a short TTL. Every
// invalidation bumps a per-owner version; a Set carrying an older version is
// dropped so a slow reader cannot put back a list a writer already replaced.
type NoteCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewNoteCache(c *Client, ttl time.Duration) *NoteCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &NoteCache{rdb: c.rdb, ttl: ttl}
}

func noteListKey(owner string) string {
	return noteListKeyPrefix + owner
}

func noteVersionKey(owner string) string {
	return noteVersionKeyPrefix + owner
}

// Get returns the cached list and the owner's current version. The version is
// returned on a miss too; pass it to Set after reading the store.
func (c *NoteCache) Get(ctx context.Context, owner string) ([]domain.Note, int64, bool, error) {
	vals, err := c.rdb.MGet(ctx, noteVersionKey(owner), noteListKey(owner)).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("note cache get: %w", err)
	}

	var version int64
	if v, ok := vals[0].(string); ok {
		version, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, 0, false, fmt.Errorf("note cache version: %w", err)
		}
	}

	raw, ok := vals[1].(string)
	if !ok {
		return nil, version, false, nil
	}

	var rows []cachedNote
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		// drop the corrupt entry so the next read repopulates it
		_ = c.rdb.Del(ctx, noteListKey(owner)).Err()
		return nil, version, false, fmt.Errorf("note cache decode: %w", err)
	}

	out := make([]domain.Note, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Note{
			ID:         r.ID,
			OwnerEmail: r.OwnerEmail,
			Category:   r.Category,
			Title:      r.Title,
			Content:    r.Content,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		})
	}
	return out, version, true, nil
}

// Set stores notes only while the owner's version still equals version.
func (c *NoteCache) Set(ctx context.Context, owner string, version int64, notes []domain.Note) error {
	rows := make([]cachedNote, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, cachedNote{
			ID:         n.ID,
			OwnerEmail: n.OwnerEmail,
			Category:   n.Category,
			Title:      n.Title,
			Content:    n.Content,
			CreatedAt:  n.CreatedAt,
			UpdatedAt:  n.UpdatedAt,
		})
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("note cache encode: %w", err)
	}
	keys := []string{noteVersionKey(owner), noteListKey(owner)}
	err = setIfVersionScript.Run(ctx, c.rdb, keys,
		strconv.FormatInt(version, 10), string(b), c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("note cache set: %w", err)
	}
	return nil
}

// Invalidate bumps the owner's version and drops the cached list.
func (c *NoteCache) Invalidate(ctx context.Context, owner string) error {
	keys := []string{noteVersionKey(owner), noteListKey(owner)}
	if err := invalidateScript.Run(ctx, c.rdb, keys, versionTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("note cache invalidate: %w", err)
	}
	return nil
}
