package model

import (
	"time"
)

// ============================================================================
// 余额变动类型常量
// ============================================================================

const (
	AdjustTypeManual = "MANUAL" // 管理员在面板上手工改写余额
)

// ============================================================================
// 余额调整流水实体
// ============================================================================

// BalanceAdjustment 余额调整流水表
// 面板上的每一次余额改写都落一条流水，是审计追溯的依据
//
// 【重要】流水表设计原则：
// 1. 只追加，不修改，不删除 —— 保证审计可追溯
// 2. 记录调整前后余额 —— 便于校验余额一致性
type BalanceAdjustment struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AdjustNo      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"adjust_no"` // 调整单号（全局唯一）
	AccountName   string    `gorm:"type:varchar(64);index;not null" json:"account_name"`    // 账户名
	Type          string    `gorm:"type:varchar(20);not null" json:"type"`                  // 调整类型
	BalanceBefore int64     `gorm:"not null" json:"balance_before"`                         // 调整前余额
	BalanceAfter  int64     `gorm:"not null" json:"balance_after"`                          // 调整后余额
	Remark        string    `gorm:"type:varchar(256)" json:"remark"`                        // 备注
	CreatedAt     time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (BalanceAdjustment) TableName() string {
	return "balance_adjustment"
}
