package models

import "time"

// DeliveryEnvelope is the per-file JSON body posted to the ingestion
// endpoint: one envelope per staged file, not per group.
type DeliveryEnvelope struct {
	Content         string     `json:"content"`
	Filename        string     `json:"filename"`
	ContentType     string     `json:"content_type"`
	SourcePath      string     `json:"source_path"`
	GroupIdentifier string     `json:"group_identifier"`
	LastWriteTime   *time.Time `json:"last_write_time"`
	CreationTime    *time.Time `json:"creation_time"`
	SizeBytes       *int64     `json:"size_bytes"`
}

// Elided returns a copy of the envelope with the content payload replaced by
// a placeholder, for console output.
func (e DeliveryEnvelope) Elided() DeliveryEnvelope {
	out := e
	if out.Content != "" {
		out.Content = "..."
	}
	return out
}

// DeliveryOutcome records the result of a single POST. It is used only for
// the console summary and is not persisted.
type DeliveryOutcome struct {
	Filename        string `json:"filename"`
	GroupIdentifier string `json:"group_identifier"`
	Delivered       bool   `json:"delivered"`
	StatusCode      int    `json:"status_code,omitempty"`
	Error           string `json:"error,omitempty"`
}

// SyncSummary is the JSON document printed after a sync run. Envelope
// payloads are elided before they land here.
type SyncSummary struct {
	Source          string             `json:"source"`
	FolderPath      string             `json:"folder_path"`
	Since           *time.Time         `json:"since"`
	EntriesListed   int                `json:"entries_listed"`
	EntriesIncluded int                `json:"entries_included"`
	GroupsAdmitted  int                `json:"groups_admitted"`
	GroupsRejected  int                `json:"groups_rejected"`
	Items           []DeliveryEnvelope `json:"items"`
	Outcomes        []DeliveryOutcome  `json:"outcomes,omitempty"`
	DeliveredCount  int                `json:"delivered_count"`
	FailedCount     int                `json:"failed_count"`
	TotalSizeBytes  int64              `json:"total_size_bytes"`
	TotalSizeHuman  string             `json:"total_size_human"`
	OperationTime   string             `json:"operation_time"`
	NextWatermark   *time.Time         `json:"next_watermark"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}
