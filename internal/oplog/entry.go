package oplog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Entry is one recorded CLI operation. ErrorKind holds the client error
// kind name for failed operations and is empty otherwise.
type Entry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	Account    string    `json:"account,omitempty"`
	DataName   string    `json:"data_name,omitempty"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
