package domain

import "time"

type StatusKind string

const (
	StatusIdle    StatusKind = "idle"
	StatusSyncing StatusKind = "syncing"
	StatusSuccess StatusKind = "success"
	StatusFailure StatusKind = "failure"
)

// SyncStatus is the observable state of the sync engine.
// Reason is only set for StatusFailure.
type SyncStatus struct {
	Kind   StatusKind `json:"kind"`
	Reason string     `json:"reason,omitempty"`
}

var (
	Idle    = SyncStatus{Kind: StatusIdle}
	Syncing = SyncStatus{Kind: StatusSyncing}
	Success = SyncStatus{Kind: StatusSuccess}
)

func Failure(err error) SyncStatus {
	return SyncStatus{Kind: StatusFailure, Reason: err.Error()}
}

func (s SyncStatus) String() string {
	if s.Kind == StatusFailure {
		return "failure(" + s.Reason + ")"
	}
	return string(s.Kind)
}

// Trigger identifies what started a sync pass.
type Trigger string

const (
	TriggerManual       Trigger = "manual"
	TriggerPeriodic     Trigger = "periodic"
	TriggerReachability Trigger = "reachability"
	TriggerStartup      Trigger = "startup"
)

// SyncStats holds counters about a sync pass.
type SyncStats struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
	Pushed   int `json:"pushed"`
}

// SyncResult reports the outcome of one sync pass.
type SyncResult struct {
	RunID     string        `json:"runId"`
	SourceID  string        `json:"sourceId"`
	Trigger   Trigger       `json:"trigger"`
	Status    SyncStatus    `json:"status"`
	Progress  float64       `json:"progress"`
	Stats     SyncStats     `json:"stats"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// Merged reports how many articles were written during the pass.
func (r *SyncResult) Merged() int {
	return r.Stats.Inserted + r.Stats.Updated
}

// SyncState is the bookkeeping row kept per remote source.
type SyncState struct {
	SourceID     string
	LastSyncedAt time.Time
	LastStatus   StatusKind
	LastError    string
	TotalSynced  int64
}
