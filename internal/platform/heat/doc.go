// Package heat talks to the OpenStack Orchestration (Heat) API.
//
// [Orchestrator] is the narrow surface the conductor needs: create, update,
// fetch and delete a stack. [RealClient] implements it with gophercloud and
// Keystone credentials from the standard OS_* environment variables.
// [MockClient] is a function-field fake for tests.
//
// Backend faults are classified into [ErrNotFound] and [ErrBadRequest] so
// callers never depend on gophercloud error types.
package heat
