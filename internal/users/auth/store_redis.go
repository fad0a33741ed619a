// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
)

// consumeScript deletes KEYS[1] only while it still holds ARGV[1].
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisCodeStore implements [CodeStore] using Redis.
type RedisCodeStore struct {
	client *redis.Client
}

// NewCodeStore creates a new Redis-backed CodeStore.
func NewCodeStore(client *redis.Client) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(username string) string {
	return constants.RedisPrefixConfirmationCode + username
}

/*
Set stores the code hash with its TTL. A later Set for the same username
overwrites the earlier one.

Parameters:
  - context: context.Context
  - username: string
  - codeHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisCodeStore) Set(context context.Context, username, codeHash string, ttl time.Duration) error {
	if err := store.client.Set(context, codeKey(username), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirmation_code_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the code hash for username.

Returns:
  - string: Stored hash
  - error: apperr.NotFound if the code is absent or expired
*/
func (store *RedisCodeStore) Get(context context.Context, username string) (string, error) {
	codeHash, err := store.client.Get(context, codeKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation code")
		}
		return "", fmt.Errorf("redis_confirmation_code_get_failed: %w", err)
	}
	return codeHash, nil
}

/*
Consume atomically removes the code when it still equals codeHash, so two
concurrent exchanges of the same code cannot both succeed.
*/
func (store *RedisCodeStore) Consume(context context.Context, username, codeHash string) (bool, error) {
	deleted, err := consumeScript.Run(context, store.client, []string{codeKey(username)}, codeHash).Int()
	if err != nil {
		return false, fmt.Errorf("redis_confirmation_code_consume_failed: %w", err)
	}
	return deleted == 1, nil
}
