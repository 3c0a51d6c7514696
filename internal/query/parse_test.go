package query

import (
	"testing"

	"bankadmin/internal/model"
)

func acct(name string, balance int64) *model.Account {
	return &model.Account{Name: name, Balance: balance}
}

func TestParseEmptyMatchesEverything(t *testing.T) {
	pred := Parse("", nil)

	for _, rec := range []*model.Account{acct("AAA", 10), acct("bbb", -5), acct("", 0)} {
		if !pred(rec) {
			t.Fatalf("空搜索应匹配所有账户，未匹配: %q", rec.Name)
		}
	}

	if pred := Parse("   ", nil); !pred(acct("x", 1)) {
		t.Fatal("纯空白搜索应等价于空搜索")
	}
}

func TestParseBalanceComparisons(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		balance int64
		want    bool
	}{
		{name: "小于条件命中", text: "balance:<100", balance: 99, want: true},
		{name: "小于条件边界不命中", text: "balance:<100", balance: 100, want: false},
		{name: "大于条件命中", text: "balance>50", balance: 51, want: true},
		{name: "大于条件边界不命中", text: "balance>50", balance: 50, want: false},
		{name: "无比较符为相等", text: "balance:75", balance: 75, want: true},
		{name: "相等条件不命中", text: "balance:75", balance: 74, want: false},
		{name: "大小写不敏感", text: "BaLaNcE:<10", balance: 5, want: true},
		{name: "负余额参与比较", text: "balance:<0", balance: -3, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := Parse(tt.text, nil)
			if got := pred(acct("any", tt.balance)); got != tt.want {
				t.Fatalf("Parse(%q) 对余额 %d 期望 %t，实际 %t", tt.text, tt.balance, tt.want, got)
			}
		})
	}
}

func TestParsePermissiveBalanceGrammar(t *testing.T) {
	// 金额取第一段数字：balance:1<2 等价于 balance < 1
	pred := Parse("balance:1<2", nil)
	if !pred(acct("a", 0)) {
		t.Fatal("balance:1<2 应按 balance < 1 解释，余额 0 应命中")
	}
	if pred(acct("a", 1)) {
		t.Fatal("balance:1<2 应按 balance < 1 解释，余额 1 不应命中")
	}

	// < 与 > 同时出现时 < 优先
	pred = Parse("balance:<5>", nil)
	if !pred(acct("a", 4)) || pred(acct("a", 6)) {
		t.Fatal("同时出现 < 和 > 时应按 < 处理")
	}

	// 比较符不必紧贴数字
	pred = Parse("balance 100 <", nil)
	if !pred(acct("a", 99)) || pred(acct("a", 100)) {
		t.Fatal("比较符允许出现在文本任意位置")
	}

	// BALANCE 开头但没有数字：落到子串匹配
	pred = Parse("balance of bob", nil)
	if pred(acct("alice", 100)) {
		t.Fatal("无数字的 BALANCE 文本应退化为子串匹配")
	}
	if !pred(acct("the BALANCE OF BOB ledger", 0)) {
		t.Fatal("无数字的 BALANCE 文本应按账户名子串匹配")
	}
}

func TestParseIsBanker(t *testing.T) {
	bankers := map[string]bool{"Alice": true, "Ghost": true}

	pred := Parse("is:banker", bankers)

	if !pred(acct("Alice", -100)) {
		t.Fatal("IS:BANKER 应命中集合内的账户，与余额无关")
	}
	if pred(acct("Bob", 9999)) {
		t.Fatal("IS:BANKER 不应命中集合外的账户")
	}

	// 解析时做一次快照，之后集合变化不影响已解析的判定
	delete(bankers, "Alice")
	if !pred(acct("Alice", 0)) {
		t.Fatal("判定应使用解析时的快照，集合后续变化不应生效")
	}
}

func TestParseFallbackSubstring(t *testing.T) {
	tests := []struct {
		name string
		text string
		rec  string
		want bool
	}{
		{name: "大小写不敏感包含", text: "abc", rec: "xAbCy", want: true},
		{name: "不包含", text: "abc", rec: "xyz", want: false},
		{name: "前后空白被去除", text: "  bob  ", rec: "BOBBY", want: true},
		{name: "冒号文本也走子串", text: "is:bank", rec: "somebody", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := Parse(tt.text, nil)
			if got := pred(acct(tt.rec, 0)); got != tt.want {
				t.Fatalf("Parse(%q) 对账户 %q 期望 %t，实际 %t", tt.text, tt.rec, tt.want, got)
			}
		})
	}
}
