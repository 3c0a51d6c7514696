package handler

import (
	"bankadmin/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 注册中间件
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	// 创建处理器
	h := NewHandler(db, rdb, cfg)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 面板会话
		p := api.Group("/panel")
		{
			p.GET("/view", h.GetView)
			p.POST("/search", h.Search)
			p.POST("/sort", h.Sort)
			p.POST("/banker", h.SetBanker)
			p.POST("/balance", h.AdjustBalance)
			p.POST("/delete", h.RequestDelete)
			p.POST("/delete/confirm", h.ConfirmDelete)

			// 无状态查询与流水
			p.GET("/accounts", h.ListAccounts)
			p.GET("/adjustments", h.ListAdjustments)

			// 权限与消息模板
			p.GET("/permissions", h.GetPermissions)
			p.PUT("/permissions", h.PutPermission)
			p.GET("/messages", h.GetMessages)
			p.PUT("/messages", h.PutMessage)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
