package rsn

import "time"

func durationMs(ms uint16) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func durationSeconds(s uint32) time.Duration {
	return time.Duration(s) * time.Second
}
