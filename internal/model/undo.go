package model

// UndoActionKind tags the variant of a compensating action.
type UndoActionKind string

// UndoStatusRevert is the only kind recorded today: revert a task's status
// to what it was before the scheduler touched it.
const UndoStatusRevert UndoActionKind = "status_revert"

// UndoAction is the record pushed onto the undo stack when the orchestrator
// transitions a task. It is consumed by the undo operation and never reused.
type UndoAction struct {
	Kind           UndoActionKind
	TaskID         int64
	PreviousStatus Status
}
