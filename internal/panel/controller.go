package panel

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"bankadmin/internal/model"
	"bankadmin/internal/query"
)

// ============================================================================
// 面板响应式控制器
// ============================================================================
//
// 控制器接收两类触发：
//   - 防抖触发：搜索框打字。静默 debounce 时长后才真正执行一次查询，
//     期间的新输入会取消并重新计时，最终只有最后一次调度会执行，
//     且执行时读取的是"当下"的搜索文本，不是调度那一刻的。
//   - 立即触发：切换排序、勾选银行家、确认删除、初次挂载。同步执行。
//
// 每次执行前，先把当前展示行上的银行家复选框状态回写到银行家存储
// （以最后渲染状态为准，直接覆盖），再取账户与银行家快照跑查询管线。
// 快照读取失败时放弃本次渲染，保留上一次的展示内容。
// ============================================================================

// TriggerKind 触发类别
type TriggerKind int

const (
	TriggerDebounced TriggerKind = iota // 搜索输入，防抖后执行
	TriggerImmediate                    // 结构性变化，立即执行
)

// RecordStore 账户存储，面板只读全量快照、按名字批量删除
type RecordStore interface {
	GetAll(ctx context.Context) ([]*model.Account, error)
	Remove(ctx context.Context, names []string) error
}

// BankerStore 银行家标记存储
type BankerStore interface {
	SetBanker(ctx context.Context, name string, isBanker bool) error
	ListAll(ctx context.Context) (map[string]bool, error)
}

// Controller 面板响应式控制器
type Controller struct {
	records   RecordStore
	bankers   BankerStore
	renderer  Renderer
	confirmer Confirmer
	sched     Scheduler
	notify    query.Notify

	resultCap int
	delay     time.Duration

	mu         sync.Mutex
	searchText string
	sortMode   query.SortMode
	visible    []Row  // 最近一次渲染的行，复选框状态随 ToggleBanker 更新
	cancel     func() // 未触发的防抖任务，有则可取消
}

// NewController 创建控制器。初始排序为余额从高到低，与面板默认选项一致。
func NewController(records RecordStore, bankers BankerStore, renderer Renderer,
	confirmer Confirmer, sched Scheduler, notify query.Notify,
	resultCap int, delay time.Duration) *Controller {
	return &Controller{
		records:   records,
		bankers:   bankers,
		renderer:  renderer,
		confirmer: confirmer,
		sched:     sched,
		notify:    notify,
		resultCap: resultCap,
		delay:     delay,
		sortMode:  query.SortBalanceDesc,
	}
}

// SetSearchText 更新搜索文本并发起防抖触发
func (c *Controller) SetSearchText(ctx context.Context, text string) {
	c.mu.Lock()
	c.searchText = text
	c.mu.Unlock()
	c.OnTrigger(ctx, TriggerDebounced)
}

// SetSortMode 更新排序方式并立即重查
func (c *Controller) SetSortMode(ctx context.Context, mode query.SortMode) {
	c.mu.Lock()
	c.sortMode = mode
	c.mu.Unlock()
	c.OnTrigger(ctx, TriggerImmediate)
}

// ToggleBanker 勾选/取消某一行的银行家复选框。
// 复选框变化本身立刻写入存储（不走防抖），随后作为结构性变化立即重查。
func (c *Controller) ToggleBanker(ctx context.Context, name string, isBanker bool) {
	if err := c.bankers.SetBanker(ctx, name, isBanker); err != nil {
		log.Printf("[Panel] 写入银行家标记失败: name=%s, err=%v", name, err)
		return
	}

	c.mu.Lock()
	for i := range c.visible {
		if c.visible[i].Name == name {
			c.visible[i].IsBanker = isBanker
		}
	}
	c.mu.Unlock()

	c.OnTrigger(ctx, TriggerImmediate)
}

// OnTrigger 统一触发入口。宿主 UI 把具体的输入/变更事件接到这里。
func (c *Controller) OnTrigger(ctx context.Context, kind TriggerKind) {
	if kind == TriggerImmediate {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.run(ctx)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// 新输入取消上一次的防抖计时，只有最后一次调度会真正执行
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = c.sched.Schedule(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cancel = nil
		c.run(context.Background())
	})
}

// RequestDeleteVisible 请求删除当前展示的全部账户。
// 先弹确认框；确认后才批量删除并立即重查，取消则不做任何改动。
func (c *Controller) RequestDeleteVisible(ctx context.Context) {
	c.mu.Lock()
	names := make([]string, 0, len(c.visible))
	for _, row := range c.visible {
		names = append(names, row.Name)
	}
	c.mu.Unlock()

	if len(names) == 0 {
		return
	}

	message := fmt.Sprintf("确定要删除当前展示的 %d 个账户吗？此操作不可恢复。", len(names))
	choices := []Choice{
		{ID: "delete", Label: "删除", Style: "danger"},
		{ID: "cancel", Label: "取消", Style: "default"},
	}

	c.confirmer.Confirm(message, choices, func(choiceID string) {
		if choiceID != "delete" {
			return
		}
		if err := c.records.Remove(context.Background(), names); err != nil {
			log.Printf("[Panel] 批量删除账户失败: count=%d, err=%v", len(names), err)
			return
		}
		c.OnTrigger(context.Background(), TriggerImmediate)
	})
}

// run 执行一次完整的"回写 -> 快照 -> 管线 -> 渲染"。调用方必须持有 c.mu。
func (c *Controller) run(ctx context.Context) {
	// 先把展示行上的复选框状态回写，保证随后的 IS:BANKER 查询反映最新编辑
	for _, row := range c.visible {
		if err := c.bankers.SetBanker(ctx, row.Name, row.IsBanker); err != nil {
			log.Printf("[Panel] 回写银行家标记失败: name=%s, err=%v", row.Name, err)
			return
		}
	}

	records, err := c.records.GetAll(ctx)
	if err != nil {
		// 快照读取失败：放弃渲染，保留上一次的展示内容
		log.Printf("[Panel] 读取账户快照失败: %v", err)
		return
	}

	bankers, err := c.bankers.ListAll(ctx)
	if err != nil {
		log.Printf("[Panel] 读取银行家集合失败: %v", err)
		return
	}

	res := query.Run(c.searchText, c.sortMode, records, bankers, c.resultCap, c.notify)

	c.visible = buildRows(res.Shown, bankers)
	c.renderer.Render(c.visible, res.Truncated, res.TotalMatches)
}
