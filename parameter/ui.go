package parameter

import "time"

// Frame Pacing
const (
	// RenderFrameRate caps full-screen redraws per second
	RenderFrameRate = 30

	// RenderConsoleInterval is the minimum gap between console lines
	RenderConsoleInterval = 200 * time.Millisecond
)

// Logging
const (
	// LogDir receives logs while the full-screen view owns the terminal
	LogDir = "./logs"

	// LogFile is the log file name under LogDir
	LogFile = "mazega.log"
)

// Metrics
const (
	// MetricsReadHeaderTimeout bounds header reads on the metrics endpoint
	MetricsReadHeaderTimeout = 5 * time.Second

	// MetricsShutdownTimeout bounds the metrics server drain on exit
	MetricsShutdownTimeout = 2 * time.Second
)
