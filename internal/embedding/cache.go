package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultCacheTTL = time.Hour

// Cache is a content-addressed decorator around an Embedder. Entries are keyed
// on provider, model, mode and the exact text, so a changed profile text is
// simply a different key.
type Cache struct {
	next   Embedder
	store  *gocache.Cache
	logger *zap.Logger
}

func NewCache(next Embedder, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Cache{
		next:   next,
		store:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func (c *Cache) Provider() string { return c.next.Provider() }

func (c *Cache) Model() string { return c.next.Model() }

// Len returns the number of cached vectors, expired ones included until cleanup.
func (c *Cache) Len() int { return c.store.ItemCount() }

// Embed returns cached vectors where available and sends only the misses to
// the wrapped embedder, in one batch and in their original order.
func (c *Cache) Embed(ctx context.Context, texts []string, mode Mode) ([][]float64, error) {
	result := make([][]float64, len(texts))
	keys := make([]string, len(texts))

	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		keys[i] = c.key(mode, text)
		if cached, ok := c.store.Get(keys[i]); ok {
			result[i] = cached.([]float64)
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}

	c.logger.Debug("embedding cache lookup",
		zap.String("mode", string(mode)),
		zap.Int("requested", len(texts)),
		zap.Int("misses", len(missTexts)),
	)

	if len(missTexts) == 0 {
		return result, nil
	}

	vectors, err := c.next.Embed(ctx, missTexts, mode)
	if err != nil {
		return nil, err
	}
	if err := CheckBatch(missTexts, vectors); err != nil {
		return nil, err
	}

	for j, vec := range vectors {
		i := missIdx[j]
		result[i] = vec
		c.store.SetDefault(keys[i], vec)
	}

	return result, nil
}

func (c *Cache) key(mode Mode, text string) string {
	sum := sha256.Sum256([]byte(c.next.Provider() + "\x00" + c.next.Model() + "\x00" + string(mode) + "\x00" + text))
	return fmt.Sprintf("%x", sum[:])
}
