package model

import "regexp"

// ── 时间区间模型 ──
//
// 课表时间统一用 "HH:MM" 字符串表示，24 小时制下字典序即时间序，
// 区间比较不需要解析为 time.Time。

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidTimeString 校验 "HH:MM" 格式（24 小时制）
func ValidTimeString(s string) bool {
	return timePattern.MatchString(s)
}

// Interval 星期几 + 半开时间区间 [StartTime, EndTime)
type Interval struct {
	DayOfWeek int    // 1=周一 ... 7=周日
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
}

// IsValid 区间有效当且仅当开始时间严格早于结束时间
func (iv Interval) IsValid() bool {
	return iv.StartTime < iv.EndTime
}

// Overlaps 半开区间重叠判定：同一天且 a.start < b.end 且 b.start < a.end。
// 首尾相接（一个结束时刻恰好是另一个开始时刻）不算重叠。
func (iv Interval) Overlaps(other Interval) bool {
	if iv.DayOfWeek != other.DayOfWeek {
		return false
	}
	return iv.StartTime < other.EndTime && other.StartTime < iv.EndTime
}
