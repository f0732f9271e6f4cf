package ratelimiter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rule は「window内にLimit回まで」というレート制限ルールです。
type Rule struct {
	Limit int
	// Count と Unit は表示用に元の表記を保持します（例: 15 minute）。
	Count  int
	Unit   string
	Window time.Duration
}

var units = map[string]time.Duration{
	"ms":          time.Millisecond,
	"millisecond": time.Millisecond,
	"second":      time.Second,
	"minute":      time.Minute,
	"hour":        time.Hour,
	"day":         24 * time.Hour,
}

// ParseRule は "5/15minutes" や "100/minute"、"10 per 1 second" 形式のルールを解析します。
func ParseRule(s string) (Rule, error) {
	limitPart, windowPart, ok := strings.Cut(s, "/")
	if !ok {
		limitPart, windowPart, ok = strings.Cut(s, " per ")
	}
	if !ok {
		return Rule{}, fmt.Errorf("invalid rate limit rule %q", s)
	}

	limit, err := strconv.Atoi(strings.TrimSpace(limitPart))
	if err != nil || limit <= 0 {
		return Rule{}, fmt.Errorf("invalid rate limit rule %q: limit must be a positive integer", s)
	}

	windowPart = strings.ToLower(strings.TrimSpace(windowPart))
	i := 0
	for i < len(windowPart) && windowPart[i] >= '0' && windowPart[i] <= '9' {
		i++
	}
	count := 1
	if i > 0 {
		count, err = strconv.Atoi(windowPart[:i])
		if err != nil || count <= 0 {
			return Rule{}, fmt.Errorf("invalid rate limit rule %q: window count must be positive", s)
		}
	}

	unit := strings.TrimSpace(windowPart[i:])
	d, ok := units[unit]
	if !ok {
		unit = strings.TrimSuffix(unit, "s")
		d, ok = units[unit]
	}
	if !ok {
		return Rule{}, fmt.Errorf("invalid rate limit rule %q: unknown unit %q", s, unit)
	}

	return Rule{Limit: limit, Count: count, Unit: unit, Window: time.Duration(count) * d}, nil
}

// MustParseRule はParseRuleと同じですが、失敗時にpanicします。
func MustParseRule(s string) Rule {
	r, err := ParseRule(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String は "5 per 15 minute" 形式で返します。429レスポンスのdetailに使われます。
func (r Rule) String() string {
	return fmt.Sprintf("%d per %d %s", r.Limit, r.Count, r.Unit)
}
