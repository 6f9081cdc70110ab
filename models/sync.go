package models

// SyncResult summarizes a single sync pass. SyncedCount is the number of
// events created or updated; Deleted and Failed are carried for operator
// logs only.
type SyncResult struct {
	Success     bool   `json:"success"`
	SyncedCount int    `json:"syncedCount"`
	Error       string `json:"error,omitempty"`

	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
