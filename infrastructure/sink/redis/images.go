// ABOUTME: Redis-backed remote object sink for offer images
// ABOUTME: Stores one hash per listing, image URL to raw bytes

package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"otodom-scraper/core/domain"
	"otodom-scraper/pkg/config"
)

// keyPrefix namespaces the per-listing image hashes.
const keyPrefix = "images:"

// ImageSink implements the ImageSink interface using a Redis hash per
// listing identity. Commit replaces the whole hash, so recommitting a
// listing never leaves stale image entries behind.
type ImageSink struct {
	client *redis.Client
}

// NewImageSink creates a Redis image sink and verifies the connection.
func NewImageSink(cfg config.RedisConfig) (*ImageSink, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &ImageSink{client: client}, nil
}

// key returns the hash key for a listing identity.
func (s *ImageSink) key(urlExtension string) string {
	return keyPrefix + domain.EscapeIdentity(urlExtension)
}

// Commit stores all images for the listing in one hash, field = image
// URL, value = raw bytes. The existing hash is deleted first so the
// commit is a deterministic overwrite.
func (s *ImageSink) Commit(ctx context.Context, urlExtension string, images map[string][]byte) error {
	key := s.key(urlExtension)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	for imageURL, data := range images {
		pipe.HSet(ctx, key, imageURL, data)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Exists reports whether the listing's image hash holds any entries.
func (s *ImageSink) Exists(ctx context.Context, urlExtension string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(urlExtension)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remove deletes the listing's image hash.
func (s *ImageSink) Remove(ctx context.Context, urlExtension string) error {
	return s.client.Del(ctx, s.key(urlExtension)).Err()
}

// Close releases the Redis client.
func (s *ImageSink) Close() error {
	return s.client.Close()
}
