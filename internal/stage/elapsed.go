package stage

import (
	"fmt"
	"time"
)

// FormatMinSec renders d as MM:SS; minutes do not wrap at the hour.
func FormatMinSec(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// FormatHMS renders d as HH:MM:SS.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
