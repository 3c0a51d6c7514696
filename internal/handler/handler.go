package handler

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"
	"time"

	"bankadmin/internal/config"
	"bankadmin/internal/infrastructure/mq"
	"bankadmin/internal/panel"
	"bankadmin/internal/query"
	"bankadmin/internal/repository"
	"bankadmin/internal/service"
	"bankadmin/pkg/idgen"
	"bankadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler 统一处理器，持有面板控制器与所有服务依赖。
// 整个服务只有一个面板会话：聊天机器人只有一个管理面板。
type Handler struct {
	accountService *service.AccountService
	prefsService   *service.PrefsService
	bankerRepo     *repository.BankerRepository
	controller     *panel.Controller
	view           *liveView
	confirms       *confirmRegistry
	cfg            *config.Config
}

// NewHandler 创建处理器实例并完成面板初次挂载
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	accountService := service.NewAccountService(db, rdb, cfg)
	prefsService := service.NewPrefsService(repository.NewSettingsRepository(rdb))
	bankerRepo := repository.NewBankerRepository(rdb)

	view := &liveView{}
	confirms := newConfirmRegistry()

	controller := panel.NewController(
		accountService,
		bankerRepo,
		view,
		confirms,
		panel.TimerScheduler{},
		notifier(cfg),
		cfg.Panel.ResultCap,
		time.Duration(cfg.Panel.DebounceMs)*time.Millisecond,
	)

	// 初次挂载：立即渲染一次
	controller.OnTrigger(context.Background(), panel.TriggerImmediate)

	return &Handler{
		accountService: accountService,
		prefsService:   prefsService,
		bankerRepo:     bankerRepo,
		controller:     controller,
		view:           view,
		confirms:       confirms,
		cfg:            cfg,
	}
}

// notifier 截断提示通道：发后即忘，投递失败只记日志
func notifier(cfg *config.Config) query.Notify {
	return func(message string) {
		log.Printf("[Panel] %s", message)
		if err := mq.SendMessage(cfg.Kafka.Topic.PanelNotice, "panel", message); err != nil {
			log.Printf("[Panel] 发送提示消息失败: %v", err)
		}
	}
}

// ============================================================
// 面板视图：控制器渲染结果的落点
// ============================================================

type liveView struct {
	mu           sync.RWMutex
	rows         []panel.Row
	truncated    bool
	totalMatches int
}

func (v *liveView) Render(rows []panel.Row, truncated bool, totalMatches int) {
	// 拷贝一份：控制器后续还会改写自己持有的行（复选框状态）
	copied := make([]panel.Row, len(rows))
	copy(copied, rows)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = copied
	v.truncated = truncated
	v.totalMatches = totalMatches
}

func (v *liveView) Snapshot() ([]panel.Row, bool, int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.rows, v.truncated, v.totalMatches
}

// ============================================================
// 确认弹窗：HTTP 两段式实现
// ============================================================

var errConfirmNotFound = errors.New("确认请求不存在或已过期")

type pendingConfirm struct {
	Message string         `json:"message"`
	Choices []panel.Choice `json:"choices"`
	resolve func(choiceID string)
}

// confirmRegistry 实现 panel.Confirmer。
// 打开弹窗时登记一条待确认记录并派发令牌，
// 客户端带令牌提交选择后再执行回调，对应"异步单选"的通道语义。
type confirmRegistry struct {
	mu      sync.Mutex
	pending map[string]*pendingConfirm
	latest  string
}

func newConfirmRegistry() *confirmRegistry {
	return &confirmRegistry{pending: make(map[string]*pendingConfirm)}
}

func (r *confirmRegistry) Confirm(message string, choices []panel.Choice, resolve func(choiceID string)) {
	token := idgen.GenerateConfirmToken()
	r.mu.Lock()
	r.pending[token] = &pendingConfirm{Message: message, Choices: choices, resolve: resolve}
	r.latest = token
	r.mu.Unlock()
}

// Latest 取最近一次打开的弹窗（token 与内容）
func (r *confirmRegistry) Latest() (string, *pendingConfirm) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == "" {
		return "", nil
	}
	return r.latest, r.pending[r.latest]
}

// Resolve 提交选择并关闭弹窗。回调在锁外执行，它会去拿控制器的锁。
func (r *confirmRegistry) Resolve(token, choiceID string) error {
	r.mu.Lock()
	pc, ok := r.pending[token]
	if !ok {
		r.mu.Unlock()
		return errConfirmNotFound
	}
	valid := false
	for _, c := range pc.Choices {
		if c.ID == choiceID {
			valid = true
		}
	}
	if !valid {
		r.mu.Unlock()
		return errors.New("未知的选择: " + choiceID)
	}
	delete(r.pending, token)
	if r.latest == token {
		r.latest = ""
	}
	r.mu.Unlock()

	pc.resolve(choiceID)
	return nil
}

// ============================================================
// 面板视图与触发接口
// ============================================================

// GetView 读取当前渲染结果
// GET /api/v1/panel/view
func (h *Handler) GetView(c *gin.Context) {
	rows, truncated, total := h.view.Snapshot()
	if rows == nil {
		rows = []panel.Row{}
	}
	response.Success(c, gin.H{
		"rows":          rows,
		"truncated":     truncated,
		"total_matches": total,
	})
}

// SearchRequest 搜索输入。空串合法：匹配全部账户。
type SearchRequest struct {
	Text string `json:"text"`
}

// Search 更新搜索文本（防抖触发，静默期后才重查）
// POST /api/v1/panel/search
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	h.controller.SetSearchText(c.Request.Context(), req.Text)
	response.Success(c, gin.H{"message": "已接收"})
}

// SortRequest 排序方式
type SortRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// Sort 切换排序方式（立即触发）
// POST /api/v1/panel/sort
func (h *Handler) Sort(c *gin.Context) {
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	mode, ok := query.ParseSortMode(req.Mode)
	if !ok {
		response.ParamError(c, "未知排序方式: "+req.Mode)
		return
	}

	h.controller.SetSortMode(c.Request.Context(), mode)
	rows, truncated, total := h.view.Snapshot()
	response.Success(c, gin.H{
		"rows":          rows,
		"truncated":     truncated,
		"total_matches": total,
	})
}

// BankerRequest 银行家复选框状态
type BankerRequest struct {
	Name     string `json:"name" binding:"required"`
	IsBanker bool   `json:"is_banker"`
}

// SetBanker 勾选/取消某个账户的银行家标记（立即触发）
// POST /api/v1/panel/banker
func (h *Handler) SetBanker(c *gin.Context) {
	var req BankerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	h.controller.ToggleBanker(c.Request.Context(), req.Name, req.IsBanker)
	response.Success(c, gin.H{"message": "已更新"})
}

// BalanceRequest 余额编辑，覆盖写，允许 0 与负数
type BalanceRequest struct {
	Name    string `json:"name" binding:"required"`
	Balance int64  `json:"balance"`
}

// AdjustBalance 改写账户余额（立即触发）
// POST /api/v1/panel/balance
func (h *Handler) AdjustBalance(c *gin.Context) {
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.accountService.AdjustBalance(c.Request.Context(), req.Name, req.Balance); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			response.BusinessError(c, response.CodeAccountNotFound, "账户不存在")
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	h.controller.OnTrigger(c.Request.Context(), panel.TriggerImmediate)
	response.Success(c, gin.H{"message": "余额已更新"})
}

// ============================================================
// 批量删除：两段式确认
// ============================================================

// RequestDelete 请求删除当前展示的全部账户，返回确认弹窗内容与令牌
// POST /api/v1/panel/delete
func (h *Handler) RequestDelete(c *gin.Context) {
	rows, _, _ := h.view.Snapshot()
	if len(rows) == 0 {
		response.ParamError(c, "当前没有可删除的账户")
		return
	}

	h.controller.RequestDeleteVisible(c.Request.Context())

	token, pc := h.confirms.Latest()
	if pc == nil {
		response.ServerError(c, "打开确认弹窗失败")
		return
	}

	response.Success(c, gin.H{
		"token":   token,
		"message": pc.Message,
		"choices": pc.Choices,
	})
}

// ConfirmDeleteRequest 确认弹窗的选择提交
type ConfirmDeleteRequest struct {
	Token  string `json:"token" binding:"required"`
	Choice string `json:"choice" binding:"required"`
}

// ConfirmDelete 提交确认弹窗的选择。选择 delete 才真正删除并重查，
// 选择 cancel 不做任何改动。
// POST /api/v1/panel/delete/confirm
func (h *Handler) ConfirmDelete(c *gin.Context) {
	var req ConfirmDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.confirms.Resolve(req.Token, req.Choice); err != nil {
		if errors.Is(err, errConfirmNotFound) {
			response.BusinessError(c, response.CodeConfirmExpired, err.Error())
			return
		}
		response.ParamError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"message": "已处理"})
}

// ============================================================
// 无状态查询接口（不经过面板会话）
// ============================================================

// ListAccounts 一次性查询，和面板走同一条查询管线
// GET /api/v1/panel/accounts?search=xxx&sort=bal_d
func (h *Handler) ListAccounts(c *gin.Context) {
	search := c.Query("search")

	mode, ok := query.ParseSortMode(c.DefaultQuery("sort", string(query.SortBalanceDesc)))
	if !ok {
		response.ParamError(c, "未知排序方式")
		return
	}

	records, err := h.accountService.GetAll(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	bankers, err := h.bankerRepo.ListAll(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	res := query.Run(search, mode, records, bankers, h.cfg.Panel.ResultCap, notifier(h.cfg))

	rows := make([]panel.Row, 0, len(res.Shown))
	for _, rec := range res.Shown {
		rows = append(rows, panel.Row{
			Name:           rec.Name,
			Balance:        rec.Balance,
			LastDailyAward: panel.FormatAwardTime(rec.LastDailyAward),
			IsBanker:       bankers[rec.Name],
		})
	}

	response.Success(c, gin.H{
		"rows":          rows,
		"truncated":     res.Truncated,
		"total_matches": res.TotalMatches,
	})
}

// ListAdjustments 查询账户的余额调整流水
// GET /api/v1/panel/adjustments?name=xxx&page=1&page_size=10
func (h *Handler) ListAdjustments(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		response.ParamError(c, "name 参数不能为空")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	adjustments, total, err := h.accountService.ListAdjustments(c.Request.Context(), name, page, pageSize)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"list":      adjustments,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ============================================================
// 权限与消息模板编辑面
// ============================================================

// GetPermissions 读取全部权限项
// GET /api/v1/panel/permissions
func (h *Handler) GetPermissions(c *gin.Context) {
	perms, err := h.prefsService.GetAllPerms(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, perms)
}

// PermRequest 权限设置
type PermRequest struct {
	Key   string `json:"key" binding:"required"`
	Level string `json:"level" binding:"required"`
}

// PutPermission 设置单个权限项
// PUT /api/v1/panel/permissions
func (h *Handler) PutPermission(c *gin.Context) {
	var req PermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.prefsService.SetPerm(c.Request.Context(), req.Key, req.Level); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "权限已更新"})
}

// GetMessages 读取全部消息模板
// GET /api/v1/panel/messages
func (h *Handler) GetMessages(c *gin.Context) {
	messages, err := h.prefsService.GetAllMessages(c.Request.Context())
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}
	response.Success(c, messages)
}

// MessageRequest 消息模板设置
type MessageRequest struct {
	Key      string `json:"key" binding:"required"`
	Template string `json:"template" binding:"required"`
}

// PutMessage 设置单个消息模板
// PUT /api/v1/panel/messages
func (h *Handler) PutMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.prefsService.SetMessage(c.Request.Context(), req.Key, req.Template); err != nil {
		response.ParamError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"message": "模板已更新"})
}
