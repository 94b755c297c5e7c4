// Package blogtests contains the blog application's API and UI test suites and their supporting
// API: the T type with its hooks and fixtures, and Expect for assertions about the page.
//
// Test harness infrastructure that is not specific to the blog, such as running tests in parallel
// groups, retries, and reporting, is in the lower-level framework package.
package blogtests
