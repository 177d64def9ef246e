package model

import "testing"

func TestInterval_Overlaps(t *testing.T) {
	base := Interval{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}

	cases := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"完全重叠", Interval{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}, true},
		{"部分重叠-后半段", Interval{DayOfWeek: 1, StartTime: "09:30", EndTime: "10:30"}, true},
		{"部分重叠-前半段", Interval{DayOfWeek: 1, StartTime: "08:30", EndTime: "09:30"}, true},
		{"包含", Interval{DayOfWeek: 1, StartTime: "08:00", EndTime: "11:00"}, true},
		{"被包含", Interval{DayOfWeek: 1, StartTime: "09:15", EndTime: "09:45"}, true},
		{"首尾相接-在后", Interval{DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"}, false},
		{"首尾相接-在前", Interval{DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"}, false},
		{"完全分离", Interval{DayOfWeek: 1, StartTime: "11:00", EndTime: "12:00"}, false},
		{"时间重叠但不同天", Interval{DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("期望Overlaps=%v，实际=%v", tc.want, got)
			}
			// 重叠判定应对称
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Errorf("期望对称Overlaps=%v，实际=%v", tc.want, got)
			}
		})
	}
}

func TestInterval_IsValid(t *testing.T) {
	if !(Interval{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}).IsValid() {
		t.Error("正常区间应有效")
	}
	if (Interval{DayOfWeek: 1, StartTime: "10:00", EndTime: "10:00"}).IsValid() {
		t.Error("零长度区间应无效")
	}
	if (Interval{DayOfWeek: 1, StartTime: "11:00", EndTime: "10:00"}).IsValid() {
		t.Error("倒置区间应无效")
	}
}

func TestValidTimeString(t *testing.T) {
	valid := []string{"00:00", "08:30", "12:05", "23:59"}
	for _, s := range valid {
		if !ValidTimeString(s) {
			t.Errorf("期望 %q 合法", s)
		}
	}

	invalid := []string{"", "24:00", "9:00", "09:60", "09-00", "09:00:00", "abc"}
	for _, s := range invalid {
		if ValidTimeString(s) {
			t.Errorf("期望 %q 非法", s)
		}
	}
}
