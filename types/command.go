package types

import "time"

// CommandStatus is the execution status of a queued command.
type CommandStatus string

const (
	// CommandPending is queued, not yet started.
	CommandPending CommandStatus = "pending"
	// CommandRunning is currently executing.
	CommandRunning CommandStatus = "running"
	// CommandDone completed successfully.
	CommandDone CommandStatus = "done"
	// CommandFailed exhausted its attempts.
	CommandFailed CommandStatus = "failed"
)

// Command is a queued unit of work derived from a dispatched action.
// Commands are ephemeral bookkeeping: they drive execution and retries and
// are never part of the persisted snapshot.
type Command struct {
	ID        string
	Action    Action
	Timestamp time.Time

	// Attempts counts executions so far. MaxAttempts defaults per action
	// family; a command that fails MaxAttempts times is marked failed,
	// recorded in Snapshot.Errors, and skipped.
	Attempts    int
	MaxAttempts int
	Status      CommandStatus
}

// Type returns the command's action type.
func (c *Command) Type() ActionType {
	return c.Action.ActionType()
}

// NewCommand wraps an action with fresh execution bookkeeping.
func NewCommand(action Action, maxAttempts int) *Command {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Command{
		ID:          NewID(),
		Action:      action,
		Timestamp:   Now(),
		MaxAttempts: maxAttempts,
		Status:      CommandPending,
	}
}
