// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of tests.
//
// The general model is:
//
// 1. Tests run outside of the Go test runner, against a system that is already running. Before
// the run starts, WaitForTarget can be used to make sure that it is reachable.
//
// 2. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Contexts are either groups or tests; groups can be serial, and
// failed tests can be retried.
//
// 3. Top-level groups can be run in parallel on a bounded pool of workers with RunGroups.
//
// The domain-specific code that knows what is being tested is responsible for providing a
// domain-specific test API on top of the test context.
package framework
