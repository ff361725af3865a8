package consts

import "time"

// Network timeouts.
const (
	HTTPClientTimeout  = 10 * time.Second
	BinaryFetchTimeout = 5 * time.Minute
)

// Subprocess output capture.
const (
	StderrTailLines = 20
)
