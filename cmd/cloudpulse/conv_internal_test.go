package main

import (
	"time"
)

func init() {
	CurrentTime = func() time.Time {
		return time.Date(2026, 10, 19, 16, 5, 6, 0, time.UTC)
	}
}
