package framework

// TestLogger receives progress events for a test run. Implementations must be safe for concurrent
// use, since groups may run in parallel.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestRetrying(id TestID, attempt, maxAttempts int)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestRetrying(TestID, int, int)             {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}
