package assistant

import (
	"fmt"
	"time"
)

var weekdayNames = [...]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// formatDateTime renders a timestamp the way the chat replies present it,
// e.g. "6月15日 星期日 14:00".
func formatDateTime(t time.Time) string {
	return fmt.Sprintf("%d月%d日 %s %02d:%02d",
		int(t.Month()), t.Day(), weekdayNames[t.Weekday()], t.Hour(), t.Minute())
}

// formatDate renders a full date with time, used for auto-generated notes.
func formatDate(t time.Time) string {
	return t.Format("2006/01/02 15:04:05")
}
