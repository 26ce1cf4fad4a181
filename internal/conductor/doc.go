// Package conductor reconciles bays against their Heat stacks.
//
// The pieces, leaves first:
//
//   - [Extractor] turns a bay and its cluster template into the template
//     identifier and parameter map for its engine.
//   - [StackClient] submits stack create, update and delete requests. It
//     owns stack naming and create timeout handling.
//   - [Poller] runs one poll cycle at a time and reports an [Outcome]:
//     continue, done or failed. [Poller.Run] drives it until a terminal
//     outcome or the attempt bound is reached.
//   - [Handler] implements the lifecycle verbs (create, update node count,
//     delete) on top of the above and the repository.
//   - [Service] runs handler operations in the background with at most one
//     active operation per bay.
package conductor
