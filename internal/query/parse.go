package query

import (
	"regexp"
	"strconv"
	"strings"

	"bankadmin/internal/model"
)

// ============================================================================
// 搜索表达式解析
// ============================================================================
//
// 面板搜索框支持一套很小的查询语言，按优先级依次匹配，先中先得：
//
//   1. 空串            -> 匹配全部账户
//   2. IS:BANKER       -> 账户名在银行家集合里
//   3. BALANCE 条件    -> 例如 BALANCE:<100 / BALANCE>50 / BALANCE:75
//   4. 其余任意文本     -> 账户名包含该文本（不区分大小写）
//
// 【关键点】BALANCE 规则是宽松匹配，不是严格语法：
//   - 金额取文本里第一段连续数字
//   - 比较符 < / > 在整个文本任意位置出现即生效，不要求紧贴数字
//   - < 和 > 同时出现时 < 优先（先检查）
//   - 像 BALANCE:1<2 这种多段数字的写法，金额取第一段（即 1）
//
// 没有任何输入会被判为非法：规则 2、3 不中的文本一律落到规则 4。
// 宽松优先于校验是有意为之的设计，不是缺陷。
// ============================================================================

// Predicate 单个账户的布尔判定
type Predicate func(*model.Account) bool

var digitRun = regexp.MustCompile(`[0-9]+`)

// Parse 把原始搜索文本解析为账户判定函数。
// bankers 为银行家名字集合，解析时做一次快照，之后集合变化不影响已解析的判定。
func Parse(raw string, bankers map[string]bool) Predicate {
	text := strings.ToUpper(strings.TrimSpace(raw))

	if text == "" {
		return func(*model.Account) bool { return true }
	}

	if text == "IS:BANKER" {
		snapshot := make(map[string]bool, len(bankers))
		for name, ok := range bankers {
			if ok {
				snapshot[name] = true
			}
		}
		return func(a *model.Account) bool {
			return snapshot[a.Name]
		}
	}

	if strings.HasPrefix(text, "BALANCE") {
		if digits := digitRun.FindString(text); digits != "" {
			if amount, err := strconv.ParseInt(digits, 10, 64); err == nil {
				switch {
				case strings.Contains(text, "<"):
					return func(a *model.Account) bool { return a.Balance < amount }
				case strings.Contains(text, ">"):
					return func(a *model.Account) bool { return a.Balance > amount }
				default:
					return func(a *model.Account) bool { return a.Balance == amount }
				}
			}
		}
	}

	return func(a *model.Account) bool {
		return strings.Contains(strings.ToUpper(a.Name), text)
	}
}
