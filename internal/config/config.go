package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	Panel  PanelConfig  `mapstructure:"panel"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	PanelNotice    string `mapstructure:"panel_notice"`
	AccountRemoved string `mapstructure:"account_removed"`
}

// PanelConfig 管理面板行为配置
type PanelConfig struct {
	ResultCap     int `mapstructure:"result_cap"`      // 单次查询最多展示的账户数
	DebounceMs    int `mapstructure:"debounce_ms"`     // 搜索输入防抖时间（毫秒）
	MaxRetryCount int `mapstructure:"max_retry_count"` // 审计消息最大重试次数
}

var GlobalConfig *Config

// LoadConfig 加载配置文件
func LoadConfig(configPath string) *Config {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("读取配置文件失败: %v", err)
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	// 面板参数缺省值
	if config.Panel.ResultCap <= 0 {
		config.Panel.ResultCap = 300
	}
	if config.Panel.DebounceMs <= 0 {
		config.Panel.DebounceMs = 300
	}
	if config.Panel.MaxRetryCount <= 0 {
		config.Panel.MaxRetryCount = 3
	}

	GlobalConfig = config
	return config
}
