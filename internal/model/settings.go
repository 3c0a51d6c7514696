package model

// ============================================================================
// 面板设置枚举：权限项与消息模板
// ============================================================================

// 权限项，对应银行各项操作允许的最低用户等级
const (
	PermKeyGamble = "gamble" // 参与赌注
	PermKeyGive   = "give"   // 赠送金币
	PermKeyRemove = "remove" // 扣除金币
	PermKeyDaily  = "daily"  // 领取每日奖励
)

// 权限等级，从低到高
const (
	PermLevelEveryone    = "everyone"
	PermLevelRegular     = "regular"
	PermLevelModerator   = "moderator"
	PermLevelBroadcaster = "broadcaster"
)

// 消息模板项，机器人在聊天中回复时使用
const (
	MessageKeyBalance = "balance" // 查询余额回复
	MessageKeyDaily   = "daily"   // 领取每日奖励回复
	MessageKeyGift    = "gift"    // 赠送金币回复
	MessageKeyBroke   = "broke"   // 余额不足回复
)

var permKeys = []string{PermKeyGamble, PermKeyGive, PermKeyRemove, PermKeyDaily}

var permLevels = []string{PermLevelEveryone, PermLevelRegular, PermLevelModerator, PermLevelBroadcaster}

var messageKeys = []string{MessageKeyBalance, MessageKeyDaily, MessageKeyGift, MessageKeyBroke}

// PermKeys 返回固定的权限项集合（顺序稳定，供接口展示）
func PermKeys() []string {
	return permKeys
}

func MessageKeys() []string {
	return messageKeys
}

func IsValidPermKey(key string) bool {
	for _, k := range permKeys {
		if k == key {
			return true
		}
	}
	return false
}

func IsValidPermLevel(level string) bool {
	for _, l := range permLevels {
		if l == level {
			return true
		}
	}
	return false
}

func IsValidMessageKey(key string) bool {
	for _, k := range messageKeys {
		if k == key {
			return true
		}
	}
	return false
}
