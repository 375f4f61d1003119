package util

import (
	"log/slog"
	"time"
)

// Trace 用法: defer util.Trace("name")()
func Trace(name string) func() {
	start := time.Now()
	slog.Debug("enter", "name", name)
	return func() {
		slog.Debug("exit", "name", name, "cost", time.Since(start))
	}
}
