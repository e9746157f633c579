package models

import "time"

// RemoteDocument is the remote store's view of a single entity document.
// Writes carry the version the writer last saw; the store rejects the write
// when the stored version differs (optimistic concurrency).
type RemoteDocument struct {
	CollectionPath string     `json:"collection_path"`
	EntityType     EntityType `json:"entity_type"`
	EntityID       string     `json:"entity_id"`
	Payload        []byte     `json:"payload,omitempty"`
	Version        int64      `json:"version"`
	Deleted        bool       `json:"deleted"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RemoteChange is a single notification delivered by the remote store's
// subscription feed, carrying the server timestamp of the change.
type RemoteChange struct {
	EntityType      EntityType `json:"entity_type"`
	EntityID        string     `json:"entity_id"`
	Kind            EventKind  `json:"kind"`
	Payload         []byte     `json:"payload,omitempty"`
	Version         int64      `json:"version"`
	OriginDeviceID  string     `json:"origin_device_id"`
	ServerTimestamp time.Time  `json:"server_timestamp"`
}

// BatchWrite is one operation inside a batched round-trip to the remote
// store.
type BatchWrite struct {
	OperationID    string     `json:"operation_id"`
	CollectionPath string     `json:"collection_path"`
	EntityType     EntityType `json:"entity_type"`
	EntityID       string     `json:"entity_id"`
	Kind           EventKind  `json:"kind"`
	Payload        []byte     `json:"payload,omitempty"`
	BaseVersion    int64      `json:"base_version"`
}

// BatchRequest is the body of a single batched network round-trip produced
// by the bandwidth optimizer.
type BatchRequest struct {
	Writes []BatchWrite `json:"writes"`
	Length int          `json:"length"`
}

// BatchWriteResult reports the per-operation outcome of a batch.
type BatchWriteResult struct {
	OperationID string `json:"operation_id"`
	Version     int64  `json:"version"`
	Conflict    bool   `json:"conflict"`
	Error       string `json:"error,omitempty"`
}

// BatchResponse is the remote store's reply to a BatchRequest.
type BatchResponse struct {
	Results []BatchWriteResult `json:"results"`
}
