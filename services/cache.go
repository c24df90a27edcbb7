package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnkhanh/mentorship-backend/logging"
	"github.com/vnkhanh/mentorship-backend/models"
)

// MentorCache holds the unfiltered active mentor directory.
type MentorCache interface {
	GetMentors(ctx context.Context) ([]models.MentorProfile, bool)
	SetMentors(ctx context.Context, mentors []models.MentorProfile)
	Invalidate(ctx context.Context)
}

const mentorDirectoryKey = "mentorship:mentors:active"

type RedisMentorCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMentorCache connects to REDIS_URL. An empty URL disables caching
// and returns a nil cache.
func NewRedisMentorCache(ctx context.Context, url string, ttl time.Duration) (*RedisMentorCache, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisMentorCache{client: client, ttl: ttl}, nil
}

func (c *RedisMentorCache) GetMentors(ctx context.Context) ([]models.MentorProfile, bool) {
	raw, err := c.client.Get(ctx, mentorDirectoryKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.FromContext(ctx).WarnContext(ctx, "mentor cache read failed", "error", err)
		}
		return nil, false
	}
	var mentors []models.MentorProfile
	if err := json.Unmarshal(raw, &mentors); err != nil {
		return nil, false
	}
	return mentors, true
}

func (c *RedisMentorCache) SetMentors(ctx context.Context, mentors []models.MentorProfile) {
	raw, err := json.Marshal(mentors)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, mentorDirectoryKey, raw, c.ttl).Err(); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "mentor cache write failed", "error", err)
	}
}

func (c *RedisMentorCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, mentorDirectoryKey).Err(); err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "mentor cache invalidation failed", "error", err)
	}
}

func (c *RedisMentorCache) Close() error {
	return c.client.Close()
}
