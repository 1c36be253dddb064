package lib

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// Verification codes live in redis with an explicit TTL, keyed per
// email, so in-flight signups survive restarts and horizontal scaling.

func StoreVerificationCode(ctx context.Context, email, code string, ttl time.Duration) error {
	rd := GetRedisClient()
	return rd.SetEx(ctx, verificationKey(email), code, ttl).Err()
}

// ConsumeVerificationCode compares the submitted code against the
// stored one and deletes it only on a match. A wrong guess must not
// burn a still-valid code.
func ConsumeVerificationCode(ctx context.Context, email, code string) (bool, error) {
	rd := GetRedisClient()
	stored, err := rd.Get(ctx, verificationKey(email)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if code == "" || stored != code {
		return false, nil
	}
	if err := rd.Del(ctx, verificationKey(email)).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func verificationKey(email string) string {
	return fmt.Sprintf("verify:%s:code", email)
}
