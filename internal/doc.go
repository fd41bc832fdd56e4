// internal is internal packages for Cloud-Pulse.
//
// Packages depend on each other only in one direction:
// jsonpath and pulseerr are leaves, registry builds on them,
// history and health describe the recorded data,
// and fetcher, monitor, export, mcp, and dashboard use the packages above.
//
// The testutil package is an exception, it is used only by tests.
package internal
