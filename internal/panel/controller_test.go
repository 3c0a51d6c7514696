package panel

import (
	"context"
	"testing"
	"time"

	"bankadmin/internal/model"
)

type recordStoreStub struct {
	records   []*model.Account
	getAllErr error
	removed   [][]string
}

func (s *recordStoreStub) GetAll(ctx context.Context) ([]*model.Account, error) {
	if s.getAllErr != nil {
		return nil, s.getAllErr
	}
	return s.records, nil
}

func (s *recordStoreStub) Remove(ctx context.Context, names []string) error {
	s.removed = append(s.removed, names)

	gone := make(map[string]bool, len(names))
	for _, name := range names {
		gone[name] = true
	}
	kept := s.records[:0]
	for _, rec := range s.records {
		if !gone[rec.Name] {
			kept = append(kept, rec)
		}
	}
	s.records = kept
	return nil
}

type bankerStoreStub struct {
	set      map[string]bool
	setCalls int
	listErr  error
}

func (s *bankerStoreStub) SetBanker(ctx context.Context, name string, isBanker bool) error {
	s.setCalls++
	if isBanker {
		s.set[name] = true
	} else {
		delete(s.set, name)
	}
	return nil
}

func (s *bankerStoreStub) ListAll(ctx context.Context) (map[string]bool, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	snapshot := make(map[string]bool, len(s.set))
	for name := range s.set {
		snapshot[name] = true
	}
	return snapshot, nil
}

type scheduledTask struct {
	delay    time.Duration
	fn       func()
	canceled bool
}

type schedulerStub struct {
	tasks []*scheduledTask
}

func (s *schedulerStub) Schedule(delay time.Duration, fn func()) func() {
	task := &scheduledTask{delay: delay, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() { task.canceled = true }
}

// fireLast 模拟最后一次调度的计时器到期
func (s *schedulerStub) fireLast(t *testing.T) {
	t.Helper()
	if len(s.tasks) == 0 {
		t.Fatal("没有已调度的防抖任务")
	}
	last := s.tasks[len(s.tasks)-1]
	if last.canceled {
		t.Fatal("最后一次调度不应已被取消")
	}
	last.fn()
}

type rendererStub struct {
	renders   int
	rows      []Row
	truncated bool
	total     int
}

func (r *rendererStub) Render(rows []Row, truncated bool, totalMatches int) {
	r.renders++
	r.rows = rows
	r.truncated = truncated
	r.total = totalMatches
}

type confirmerStub struct {
	message string
	choices []Choice
	resolve func(choiceID string)
}

func (c *confirmerStub) Confirm(message string, choices []Choice, resolve func(choiceID string)) {
	c.message = message
	c.choices = choices
	c.resolve = resolve
}

func newTestController(records ...*model.Account) (*Controller, *recordStoreStub, *bankerStoreStub, *rendererStub, *confirmerStub, *schedulerStub) {
	store := &recordStoreStub{records: records}
	bankers := &bankerStoreStub{set: make(map[string]bool)}
	renderer := &rendererStub{}
	confirmer := &confirmerStub{}
	sched := &schedulerStub{}

	ctrl := NewController(store, bankers, renderer, confirmer, sched, nil, 300, 300*time.Millisecond)
	return ctrl, store, bankers, renderer, confirmer, sched
}

func TestImmediateTriggerRendersNow(t *testing.T) {
	ctrl, _, _, renderer, _, sched := newTestController(
		&model.Account{Name: "poor", Balance: 1},
		&model.Account{Name: "rich", Balance: 100},
	)

	ctrl.OnTrigger(context.Background(), TriggerImmediate)

	if renderer.renders != 1 {
		t.Fatalf("立即触发应同步渲染一次，实际 %d 次", renderer.renders)
	}
	if len(sched.tasks) != 0 {
		t.Fatal("立即触发不应经过防抖调度")
	}
	// 默认排序 bal_d
	if renderer.rows[0].Name != "rich" || renderer.rows[1].Name != "poor" {
		t.Fatalf("默认排序应为余额从高到低，实际 %v", renderer.rows)
	}
}

func TestDebounceCoalescesBurstAndUsesLatestText(t *testing.T) {
	ctrl, _, _, renderer, _, sched := newTestController(
		&model.Account{Name: "AAA", Balance: 1},
		&model.Account{Name: "BBB", Balance: 2},
	)

	ctrl.SetSearchText(context.Background(), "A")
	ctrl.SetSearchText(context.Background(), "BB")
	ctrl.SetSearchText(context.Background(), "BBB")

	if renderer.renders != 0 {
		t.Fatal("静默期内不应有任何渲染")
	}
	if len(sched.tasks) != 3 {
		t.Fatalf("三次输入应产生三次调度，实际 %d", len(sched.tasks))
	}
	if !sched.tasks[0].canceled || !sched.tasks[1].canceled {
		t.Fatal("新输入应取消之前的调度")
	}

	sched.fireLast(t)

	if renderer.renders != 1 {
		t.Fatalf("突发输入应合并为一次查询，实际 %d 次", renderer.renders)
	}
	if len(renderer.rows) != 1 || renderer.rows[0].Name != "BBB" {
		t.Fatalf("查询应使用触发时刻的最新输入 BBB，实际结果 %v", renderer.rows)
	}
}

func TestDebounceDelayMatchesConfig(t *testing.T) {
	ctrl, _, _, _, _, sched := newTestController()

	ctrl.SetSearchText(context.Background(), "x")

	if sched.tasks[0].delay != 300*time.Millisecond {
		t.Fatalf("防抖时长期望 300ms，实际 %v", sched.tasks[0].delay)
	}
}

func TestToggleBankerWritesThroughAndRequeries(t *testing.T) {
	ctrl, _, bankers, renderer, _, sched := newTestController(
		&model.Account{Name: "Alice", Balance: 1},
		&model.Account{Name: "Bob", Balance: 2},
	)

	ctrl.OnTrigger(context.Background(), TriggerImmediate)
	ctrl.ToggleBanker(context.Background(), "Alice", true)

	if !bankers.set["Alice"] {
		t.Fatal("勾选应立刻写入银行家存储，不走防抖")
	}
	if renderer.renders != 2 {
		t.Fatalf("勾选后应立即重查渲染，实际渲染 %d 次", renderer.renders)
	}

	// 勾选状态在下一次查询里立即可见
	ctrl.SetSearchText(context.Background(), "is:banker")
	sched.fireLast(t)

	if len(renderer.rows) != 1 || renderer.rows[0].Name != "Alice" || !renderer.rows[0].IsBanker {
		t.Fatalf("IS:BANKER 应反映刚写入的标记，实际 %v", renderer.rows)
	}
}

func TestRunReconcilesVisibleCheckboxesFirst(t *testing.T) {
	ctrl, _, bankers, renderer, _, _ := newTestController(
		&model.Account{Name: "Alice", Balance: 1},
		&model.Account{Name: "Bob", Balance: 2},
	)

	ctrl.OnTrigger(context.Background(), TriggerImmediate)

	if renderer.renders != 1 {
		t.Fatalf("应渲染一次，实际 %d", renderer.renders)
	}
	// 两行可见、复选框均未勾选：回写等于覆盖写 false
	calls := bankers.setCalls

	ctrl.OnTrigger(context.Background(), TriggerImmediate)

	if bankers.setCalls != calls+2 {
		t.Fatalf("每次执行前应回写全部可见行的复选框状态，期望新增 2 次写入，实际 %d 次", bankers.setCalls-calls)
	}
}

func TestDeleteVisibleRequiresConfirmation(t *testing.T) {
	ctrl, store, _, renderer, confirmer, _ := newTestController(
		&model.Account{Name: "Alice", Balance: 1},
		&model.Account{Name: "Bob", Balance: 2},
	)

	ctrl.OnTrigger(context.Background(), TriggerImmediate)
	ctrl.RequestDeleteVisible(context.Background())

	if confirmer.resolve == nil {
		t.Fatal("删除前应先弹确认框")
	}
	if len(confirmer.choices) != 2 || confirmer.choices[0].ID != "delete" || confirmer.choices[1].ID != "cancel" {
		t.Fatalf("确认框应有 delete/cancel 两个按钮，实际 %v", confirmer.choices)
	}
	if len(store.removed) != 0 {
		t.Fatal("确认之前不应执行删除")
	}

	// 取消：不做任何改动
	confirmer.resolve("cancel")
	if len(store.removed) != 0 || renderer.renders != 1 {
		t.Fatal("取消后不应删除也不应重查")
	}

	// 确认：删除可见行并立即重查
	ctrl.RequestDeleteVisible(context.Background())
	confirmer.resolve("delete")

	if len(store.removed) != 1 {
		t.Fatalf("确认后应执行一次批量删除，实际 %d 次", len(store.removed))
	}
	// 可见行按 bal_d 排序，Bob 余额更高排在前
	if got := store.removed[0]; len(got) != 2 || got[0] != "Bob" || got[1] != "Alice" {
		t.Fatalf("应删除全部可见行，实际 %v", got)
	}
	if renderer.renders != 2 {
		t.Fatalf("删除后应立即重查渲染，实际渲染 %d 次", renderer.renders)
	}
	if len(renderer.rows) != 0 {
		t.Fatalf("删除后重查结果应为空，实际 %v", renderer.rows)
	}
}

func TestDeleteWithNothingVisibleIsNoop(t *testing.T) {
	ctrl, _, _, _, confirmer, _ := newTestController()

	ctrl.OnTrigger(context.Background(), TriggerImmediate)
	ctrl.RequestDeleteVisible(context.Background())

	if confirmer.resolve != nil {
		t.Fatal("没有可见行时不应弹确认框")
	}
}

func TestSnapshotErrorKeepsPreviousView(t *testing.T) {
	ctrl, store, _, renderer, _, _ := newTestController(
		&model.Account{Name: "Alice", Balance: 1},
	)

	ctrl.OnTrigger(context.Background(), TriggerImmediate)
	if renderer.renders != 1 {
		t.Fatalf("首次渲染失败，实际 %d", renderer.renders)
	}

	store.getAllErr = context.DeadlineExceeded
	ctrl.OnTrigger(context.Background(), TriggerImmediate)

	if renderer.renders != 1 {
		t.Fatal("快照读取失败应放弃渲染，保留上一次的展示内容")
	}
	if len(renderer.rows) != 1 || renderer.rows[0].Name != "Alice" {
		t.Fatalf("上一次的展示内容被破坏: %v", renderer.rows)
	}
}

func TestTruncationNoticePerRun(t *testing.T) {
	records := make([]*model.Account, 0, 301)
	for i := 0; i < 301; i++ {
		records = append(records, &model.Account{Name: "u", Balance: int64(i)})
	}
	store := &recordStoreStub{records: records}
	bankers := &bankerStoreStub{set: make(map[string]bool)}
	renderer := &rendererStub{}
	notices := 0

	ctrl := NewController(store, bankers, renderer, &confirmerStub{}, &schedulerStub{}, func(string) { notices++ }, 300, time.Millisecond)

	ctrl.OnTrigger(context.Background(), TriggerImmediate)

	if !renderer.truncated || renderer.total != 301 || len(renderer.rows) != 300 {
		t.Fatalf("截断渲染异常: truncated=%t total=%d shown=%d", renderer.truncated, renderer.total, len(renderer.rows))
	}
	if notices != 1 {
		t.Fatalf("一次执行应恰好提示一次，实际 %d 次", notices)
	}
}
