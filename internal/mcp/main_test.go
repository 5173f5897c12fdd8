package mcp

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for the whole package.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Keep-alive connections from httptest backends outlive tests.
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}
