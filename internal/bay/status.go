package bay

import "strings"

// Status mirrors the Heat stack status vocabulary. Values are
// <ACTION>_<STATE>; classification is done on the suffix so new actions
// (ROLLBACK, SUSPEND, ...) need no code changes.
type Status string

const (
	StatusCreateInProgress Status = "CREATE_IN_PROGRESS"
	StatusCreateFailed     Status = "CREATE_FAILED"
	StatusCreateComplete   Status = "CREATE_COMPLETE"
	StatusUpdateInProgress Status = "UPDATE_IN_PROGRESS"
	StatusUpdateFailed     Status = "UPDATE_FAILED"
	StatusUpdateComplete   Status = "UPDATE_COMPLETE"
	StatusDeleteInProgress Status = "DELETE_IN_PROGRESS"
	StatusDeleteFailed     Status = "DELETE_FAILED"
	StatusDeleteComplete   Status = "DELETE_COMPLETE"
)

const (
	suffixInProgress = "_IN_PROGRESS"
	suffixComplete   = "_COMPLETE"
	suffixFailed     = "_FAILED"
	prefixDelete     = "DELETE_"
)

// IsInProgress reports whether the stack is still converging.
func (s Status) IsInProgress() bool { return strings.HasSuffix(string(s), suffixInProgress) }

// IsComplete reports whether the stack action finished successfully.
func (s Status) IsComplete() bool { return strings.HasSuffix(string(s), suffixComplete) }

// IsFailed reports whether the stack action failed.
func (s Status) IsFailed() bool { return strings.HasSuffix(string(s), suffixFailed) }

// IsDelete reports whether the status belongs to a delete action.
func (s Status) IsDelete() bool { return strings.HasPrefix(string(s), prefixDelete) }

// IsKnown reports whether the status carries one of the recognised suffixes.
func (s Status) IsKnown() bool {
	return s.IsInProgress() || s.IsComplete() || s.IsFailed()
}

func (s Status) String() string { return string(s) }
