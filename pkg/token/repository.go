package token

import (
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(client *redis.Client) *redisRepository {
	return &redisRepository{client}
}

// redisRepository is the allow-list of refresh tokens. A refresh token can only be redeemed while
// its key exists, so deleting keys invalidates tokens before they expire.
type redisRepository struct {
	client *redis.Client
}

func (r redisRepository) SetRefreshToken(userId uint, tokenId string, expiresIn time.Duration) error {
	return r.client.Set(refreshTokenKey(userId, tokenId), "", expiresIn).Err()
}

func (r redisRepository) DeleteRefreshToken(userId uint, tokenId string) error {
	key := refreshTokenKey(userId, tokenId)
	deleted, err := r.client.Del(key).Result()
	if err != nil {
		return err
	}
	if deleted < 1 {
		return fmt.Errorf("refresh token not found: %s", key)
	}
	return nil
}

func (r redisRepository) DeleteRefreshTokens(userId uint) error {
	keys, err := r.client.Keys(fmt.Sprintf("refreshToken:%d:*", userId)).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(keys...).Err()
}

func refreshTokenKey(userId uint, tokenId string) string {
	return fmt.Sprintf("refreshToken:%d:%s", userId, tokenId)
}
