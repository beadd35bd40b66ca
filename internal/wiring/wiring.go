// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/sassy/internal/adapters/config"
	_ "go.trai.ch/sassy/internal/adapters/logger"
	_ "go.trai.ch/sassy/internal/adapters/metrics"
	_ "go.trai.ch/sassy/internal/adapters/telemetry"
	_ "go.trai.ch/sassy/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/sassy/internal/app"
)
