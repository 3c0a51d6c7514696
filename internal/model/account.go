package model

import (
	"time"
)

// Account 聊天机器人金币账户表
// 每个聊天用户一行，是整个银行面板的核心数据
type Account struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"` // 用户名，按输入原样存储，搜索时不区分大小写
	Balance        int64      `gorm:"not null;default:0" json:"balance"`                 // 金币余额，允许为负
	LastDailyAward *time.Time `json:"last_daily_award"`                                  // 最近一次每日奖励时间，NULL 表示从未领取
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}
