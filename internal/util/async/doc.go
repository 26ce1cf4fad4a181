// Package async runs independent operations concurrently.
//
// [RunParallel] starts every task, waits for all of them, and returns the
// joined errors. The conductor uses it to resume in-progress bays at start
// and the CLI uses it to delete several bays at once.
package async
