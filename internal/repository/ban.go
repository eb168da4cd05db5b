package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const bansKey = "bans"

type BanRepository interface {
	Ban(ctx context.Context, userID int64) error
	Unban(ctx context.Context, userID int64) error
	IsBanned(ctx context.Context, userID int64) (bool, error)
}

type dbBans struct {
	client *redis.Client
}

func NewBanRepository(client *redis.Client) BanRepository {
	return &dbBans{
		client: client,
	}
}

func (that *dbBans) Ban(ctx context.Context, userID int64) error {
	if err := that.client.SAdd(ctx, bansKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}

	return nil
}

func (that *dbBans) Unban(ctx context.Context, userID int64) error {
	if err := that.client.SRem(ctx, bansKey, userID).Err(); err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}

	return nil
}

func (that *dbBans) IsBanned(ctx context.Context, userID int64) (bool, error) {
	banned, err := that.client.SIsMember(ctx, bansKey, userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check ban: %w", err)
	}

	return banned, nil
}
