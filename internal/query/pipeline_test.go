package query

import (
	"fmt"
	"strings"
	"testing"

	"bankadmin/internal/model"
)

func TestRunTruncatesAtCapAndNotifiesOnce(t *testing.T) {
	records := make([]*model.Account, 0, 301)
	for i := 0; i < 301; i++ {
		records = append(records, acct(fmt.Sprintf("user%03d", i), int64(i)))
	}

	var notices []string
	notify := func(msg string) { notices = append(notices, msg) }

	res := Run("", SortBalanceAsc, records, nil, 300, notify)

	if len(res.Shown) != 300 {
		t.Fatalf("展示数量期望 300，实际 %d", len(res.Shown))
	}
	if !res.Truncated {
		t.Fatal("超过上限时 Truncated 应为 true")
	}
	if res.TotalMatches != 301 {
		t.Fatalf("命中总数期望 301，实际 %d", res.TotalMatches)
	}
	if len(notices) != 1 {
		t.Fatalf("截断提示应恰好触发一次，实际 %d 次", len(notices))
	}
	if !strings.Contains(notices[0], "300") || !strings.Contains(notices[0], "301") {
		t.Fatalf("提示内容应包含上限与命中总数，实际: %s", notices[0])
	}
}

func TestRunNoTruncationNoNotice(t *testing.T) {
	records := []*model.Account{acct("a", 1), acct("b", 2)}

	notifies := 0
	res := Run("", SortBalanceDesc, records, nil, 300, func(string) { notifies++ })

	if res.Truncated {
		t.Fatal("未超过上限时 Truncated 应为 false")
	}
	if res.TotalMatches != 2 || len(res.Shown) != 2 {
		t.Fatalf("期望全部展示 2 条，实际 shown=%d total=%d", len(res.Shown), res.TotalMatches)
	}
	if notifies != 0 {
		t.Fatalf("未截断时不应有提示，实际 %d 次", notifies)
	}
}

func TestRunExactCapIsNotTruncated(t *testing.T) {
	records := make([]*model.Account, 0, 300)
	for i := 0; i < 300; i++ {
		records = append(records, acct(fmt.Sprintf("user%03d", i), int64(i)))
	}

	notifies := 0
	res := Run("", SortBalanceAsc, records, nil, 300, func(string) { notifies++ })

	if res.Truncated || notifies != 0 {
		t.Fatal("恰好等于上限时不算截断")
	}
}

func TestRunFilterSortEndToEnd(t *testing.T) {
	records := []*model.Account{
		acct("AAA", 10),
		acct("BBB", 200),
		acct("CCC", 10),
	}

	res := Run("balance:10", SortBalanceDesc, records, nil, 300, nil)

	if res.Truncated {
		t.Fatal("3 条记录不应截断")
	}
	if len(res.Shown) != 2 {
		t.Fatalf("balance:10 应命中 2 条，实际 %d", len(res.Shown))
	}
	// 余额并列时保持原有相对顺序
	if res.Shown[0].Name != "AAA" || res.Shown[1].Name != "CCC" {
		t.Fatalf("期望 [AAA CCC]，实际 [%s %s]", res.Shown[0].Name, res.Shown[1].Name)
	}
}

func TestRunIsBankerUsesSnapshot(t *testing.T) {
	records := []*model.Account{acct("Alice", 1), acct("Bob", 2)}
	bankers := map[string]bool{"Bob": true}

	res := Run("IS:BANKER", SortBalanceDesc, records, bankers, 300, nil)

	if len(res.Shown) != 1 || res.Shown[0].Name != "Bob" {
		t.Fatalf("IS:BANKER 期望只命中 Bob，实际 %d 条", len(res.Shown))
	}
}

func TestRunDefaultCap(t *testing.T) {
	records := make([]*model.Account, 0, DefaultResultCap+1)
	for i := 0; i <= DefaultResultCap; i++ {
		records = append(records, acct(fmt.Sprintf("u%d", i), 0))
	}

	res := Run("", SortBalanceDesc, records, nil, 0, nil)

	if len(res.Shown) != DefaultResultCap || !res.Truncated {
		t.Fatalf("limit<=0 时应使用默认上限 %d，实际展示 %d", DefaultResultCap, len(res.Shown))
	}
}
