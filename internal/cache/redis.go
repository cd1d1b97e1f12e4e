package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bookoro/config"
	"bookoro/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) GetFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, searchKey(filter)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, filter domain.FlightFilter, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(filter), payload, c.flightsTTL).Err()
}

// SetOTP stores a one-time verification code for the email, replacing any
// previous one.
func (c *RedisCache) SetOTP(ctx context.Context, email, code string, ttl time.Duration) error {
	return c.client.Set(ctx, otpKey(email), code, ttl).Err()
}

// VerifyOTP compares the provided code against the stored one and deletes it
// on a match. A code is usable at most once.
func (c *RedisCache) VerifyOTP(ctx context.Context, email, code string) (bool, error) {
	key := otpKey(email)
	stored, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if stored != code {
		return false, nil
	}
	return true, c.client.Del(ctx, key).Err()
}

func searchKey(f domain.FlightFilter) string {
	var sb strings.Builder
	sb.WriteString("cache:flights:")
	sb.WriteString(strings.ToLower(f.Origin))
	sb.WriteByte('|')
	sb.WriteString(strings.ToLower(f.Destination))
	sb.WriteByte('|')
	if f.Date != nil {
		sb.WriteString(f.Date.UTC().Format("2006-01-02"))
	}
	sb.WriteByte('|')
	if f.MinPrice != nil {
		fmt.Fprintf(&sb, "%g", *f.MinPrice)
	}
	sb.WriteByte('|')
	if f.MaxPrice != nil {
		fmt.Fprintf(&sb, "%g", *f.MaxPrice)
	}
	return sb.String()
}

func otpKey(email string) string {
	return fmt.Sprintf("otp:%s", strings.ToLower(email))
}
