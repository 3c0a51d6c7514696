package repository

import (
	"context"

	"bankadmin/internal/model"

	"gorm.io/gorm"
)

type AdjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) *AdjustmentRepository {
	return &AdjustmentRepository{db: db}
}

func (r *AdjustmentRepository) Create(ctx context.Context, tx *gorm.DB, adj *model.BalanceAdjustment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(adj).Error
}

func (r *AdjustmentRepository) ListByAccountName(ctx context.Context, name string, page, pageSize int) ([]*model.BalanceAdjustment, int64, error) {
	var adjustments []*model.BalanceAdjustment
	var total int64

	query := r.db.WithContext(ctx).Model(&model.BalanceAdjustment{}).Where("account_name = ?", name)

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&adjustments).Error

	return adjustments, total, err
}
