package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBalanceSnapshot is the task type for nightly balance snapshots.
	TaskBalanceSnapshot = "ledger:balance_snapshot"
)

// BalanceSnapshotPayload selects which parties to snapshot. An empty
// PartyType means both customers and suppliers. AsOf defaults to the
// run date when blank.
type BalanceSnapshotPayload struct {
	PartyType string `json:"party_type,omitempty"`
	AsOf      string `json:"as_of,omitempty"`
}

// NewBalanceSnapshotTask constructs an Asynq task.
func NewBalanceSnapshotTask(payload BalanceSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalanceSnapshot, data), nil
}
