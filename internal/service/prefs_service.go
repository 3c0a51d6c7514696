package service

import (
	"context"
	"fmt"

	"bankadmin/internal/model"
)

// Settings 键值设置存储抽象，生产环境由 repository.SettingsRepository（Redis）实现
type Settings interface {
	Get(ctx context.Context, key, defaultValue string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// 权限项缺省值
var defaultPerms = map[string]string{
	model.PermKeyGamble: model.PermLevelEveryone,
	model.PermKeyGive:   model.PermLevelEveryone,
	model.PermKeyRemove: model.PermLevelModerator,
	model.PermKeyDaily:  model.PermLevelEveryone,
}

// 消息模板缺省值，{user} / {balance} / {amount} 由机器人回复时替换
var defaultMessages = map[string]string{
	model.MessageKeyBalance: "{user} 当前持有 {balance} 枚金币",
	model.MessageKeyDaily:   "{user} 领取了每日奖励 {amount} 枚金币，现有 {balance} 枚",
	model.MessageKeyGift:    "{user} 赠送给 {target} {amount} 枚金币",
	model.MessageKeyBroke:   "{user} 余额不足，当前只有 {balance} 枚金币",
}

// PrefsService 权限与消息模板的编辑面。
// 只负责读写取值，不做任何权限判定——判定发生在机器人命令侧，不在面板。
type PrefsService struct {
	settings Settings
}

func NewPrefsService(settings Settings) *PrefsService {
	return &PrefsService{settings: settings}
}

// GetPerm 读取单个权限项，未设置或存储里是非法值时回退到缺省值
func (s *PrefsService) GetPerm(ctx context.Context, key string) (string, error) {
	if !model.IsValidPermKey(key) {
		return "", fmt.Errorf("未知权限项: %s", key)
	}

	value, err := s.settings.Get(ctx, "perm:"+key, defaultPerms[key])
	if err != nil {
		return "", err
	}
	if !model.IsValidPermLevel(value) {
		return defaultPerms[key], nil
	}
	return value, nil
}

func (s *PrefsService) SetPerm(ctx context.Context, key, level string) error {
	if !model.IsValidPermKey(key) {
		return fmt.Errorf("未知权限项: %s", key)
	}
	if !model.IsValidPermLevel(level) {
		return fmt.Errorf("未知权限等级: %s", level)
	}
	return s.settings.Set(ctx, "perm:"+key, level)
}

// GetAllPerms 读取全部权限项，供面板一次性展示
func (s *PrefsService) GetAllPerms(ctx context.Context) (map[string]string, error) {
	perms := make(map[string]string, len(defaultPerms))
	for _, key := range model.PermKeys() {
		value, err := s.GetPerm(ctx, key)
		if err != nil {
			return nil, err
		}
		perms[key] = value
	}
	return perms, nil
}

func (s *PrefsService) GetMessage(ctx context.Context, key string) (string, error) {
	if !model.IsValidMessageKey(key) {
		return "", fmt.Errorf("未知消息模板: %s", key)
	}
	return s.settings.Get(ctx, "message:"+key, defaultMessages[key])
}

func (s *PrefsService) SetMessage(ctx context.Context, key, template string) error {
	if !model.IsValidMessageKey(key) {
		return fmt.Errorf("未知消息模板: %s", key)
	}
	return s.settings.Set(ctx, "message:"+key, template)
}

func (s *PrefsService) GetAllMessages(ctx context.Context) (map[string]string, error) {
	messages := make(map[string]string, len(defaultMessages))
	for _, key := range model.MessageKeys() {
		value, err := s.GetMessage(ctx, key)
		if err != nil {
			return nil, err
		}
		messages[key] = value
	}
	return messages, nil
}
