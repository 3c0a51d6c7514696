package panel

import (
	"time"
)

// Scheduler 延迟任务抽象：Schedule 返回取消函数，再次调度前取消上一次即构成防抖。
// 抽成接口是为了让控制器的防抖逻辑可以在测试里用假时钟驱动。
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// TimerScheduler 基于 time.AfterFunc 的真实实现
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
