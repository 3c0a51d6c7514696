package repository

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// 银行家集合的 Redis key。成员是账户名，和 account 表之间不做引用完整性约束：
// 集合里允许留着已删除账户的名字，面板展示时自然对不上也无害。
const bankerSetKey = "bank:bankers"

// BankerRepository 银行家标记存储，基于 Redis 集合
type BankerRepository struct {
	client *redis.Client
}

func NewBankerRepository(client *redis.Client) *BankerRepository {
	return &BankerRepository{client: client}
}

func (r *BankerRepository) IsBanker(ctx context.Context, name string) (bool, error) {
	return r.client.SIsMember(ctx, bankerSetKey, name).Result()
}

// SetBanker 覆盖写单个标记：true 入集合，false 出集合，重复写入无副作用
func (r *BankerRepository) SetBanker(ctx context.Context, name string, isBanker bool) error {
	if isBanker {
		return r.client.SAdd(ctx, bankerSetKey, name).Err()
	}
	return r.client.SRem(ctx, bankerSetKey, name).Err()
}

func (r *BankerRepository) ListAll(ctx context.Context) (map[string]bool, error) {
	names, err := r.client.SMembers(ctx, bankerSetKey).Result()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set, nil
}
