package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"bankadmin/internal/config"
	"bankadmin/internal/infrastructure/lock"
	"bankadmin/internal/model"
	"bankadmin/internal/repository"
	"bankadmin/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// AccountService 面板的账户操作：全量快照、批量删除、余额改写。
// 实现了 panel.RecordStore，控制器通过接口使用它。
type AccountService struct {
	db             *gorm.DB
	redisClient    *redis.Client
	cfg            *config.Config
	accountRepo    *repository.AccountRepository
	adjustmentRepo *repository.AdjustmentRepository
	outboxRepo     *repository.OutboxRepository
}

func NewAccountService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *AccountService {
	return &AccountService{
		db:             db,
		redisClient:    redisClient,
		cfg:            cfg,
		accountRepo:    repository.NewAccountRepository(db),
		adjustmentRepo: repository.NewAdjustmentRepository(db),
		outboxRepo:     repository.NewOutboxRepository(db),
	}
}

// GetAll 全量账户快照
func (s *AccountService) GetAll(ctx context.Context) ([]*model.Account, error) {
	return s.accountRepo.GetAll(ctx)
}

// Remove 批量删除账户，并在同一事务里写入一条删除审计消息，
// 由后台任务异步投递到 Kafka。
//
// 【关键点】面板契约是单写者，但 HTTP 层天然并发，
// 所以用 Redis 锁把批量删除串行化，避免两次删除交叉执行。
func (s *AccountService) Remove(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	batchNo := idgen.GenerateBatchNo()

	removeLock := lock.NewRemoveLock(s.redisClient, batchNo)
	if err := removeLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer removeLock.Unlock(ctx)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.RemoveByNames(ctx, tx, names); err != nil {
			return fmt.Errorf("删除账户失败: %w", err)
		}

		payload, _ := json.Marshal(map[string]interface{}{
			"batch_no":   batchNo,
			"names":      names,
			"count":      len(names),
			"removed_at": time.Now().Format(time.RFC3339),
		})

		outboxMsg := &model.OutboxMessage{
			MessageKey: batchNo,
			Topic:      s.cfg.Kafka.Topic.AccountRemoved,
			Payload:    string(payload),
			Status:     model.OutboxStatusPending,
		}
		if err := s.outboxRepo.Create(ctx, tx, outboxMsg); err != nil {
			return fmt.Errorf("写入审计消息失败: %w", err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	log.Printf("[AccountService] 批量删除成功: batchNo=%s, count=%d", batchNo, len(names))
	return nil
}

// AdjustBalance 把账户余额改写为给定值，并记录调整流水。
// 面板上的余额输入框是覆盖写，不做任何增减或校验逻辑。
func (s *AccountService) AdjustBalance(ctx context.Context, name string, balance int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.GetByNameForUpdate(ctx, tx, name)
		if err != nil {
			return err
		}

		if account.Balance == balance {
			return nil
		}

		if err := s.accountRepo.UpdateBalance(ctx, tx, name, balance); err != nil {
			return fmt.Errorf("改写余额失败: %w", err)
		}

		adjustment := &model.BalanceAdjustment{
			AdjustNo:      idgen.GenerateAdjustNo(),
			AccountName:   name,
			Type:          model.AdjustTypeManual,
			BalanceBefore: account.Balance,
			BalanceAfter:  balance,
			Remark:        "面板手工调整",
		}
		if err := s.adjustmentRepo.Create(ctx, tx, adjustment); err != nil {
			return fmt.Errorf("记录调整流水失败: %w", err)
		}

		return nil
	})
}

// ListAdjustments 查询某账户的余额调整流水
func (s *AccountService) ListAdjustments(ctx context.Context, name string, page, pageSize int) ([]*model.BalanceAdjustment, int64, error) {
	return s.adjustmentRepo.ListByAccountName(ctx, name, page, pageSize)
}
