// Package adapter provides transport-layer abstractions for communicating
// with the remote document store.
//
// The primary abstractions are [RemoteStore] for conditional document writes
// and batched round-trips, and [SubscriptionFeed] for the server-push change
// feed. The package ships an HTTP/REST implementation built on resty
// ([NewHTTPRemoteStore]) and a websocket feed ([NewWebsocketFeed]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrVersionConflict] for 409, [ErrNetworkUnavailable]
// for 503 and connection failures).
package adapter

import (
	"context"

	"github.com/keyfold/syncengine/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RemoteStore defines transport-agnostic communication with the remote
// document store. The store supports per-document creation, update, and
// deletion with optimistic concurrency on a version field; the engine never
// assumes multi-document transactions.
type RemoteStore interface {
	// Put writes doc conditionally on doc.Version matching the stored
	// version. On success it returns the new stored version. Returns
	// ErrVersionConflict when another device has written the document
	// since, and ErrNetworkUnavailable when the store is unreachable.
	Put(ctx context.Context, doc models.RemoteDocument) (int64, error)

	// Delete removes the document conditionally on version. Returns the
	// same error classes as Put.
	Delete(ctx context.Context, collectionPath, entityID string, version int64) error

	// Get fetches a single document by collection path and entity id.
	Get(ctx context.Context, collectionPath, entityID string) (models.RemoteDocument, error)

	// PutBatch ships a batch of writes in one round-trip. body is the
	// serialized (optionally snappy-compressed) BatchRequest produced by
	// the bandwidth optimizer; compressed reports which encoding was used.
	// Per-operation outcomes come back in the BatchResponse: a failed batch
	// transport-wise returns an error and no response.
	PutBatch(ctx context.Context, body []byte, compressed bool) (models.BatchResponse, error)
}

// SubscriptionFeed is the remote store's change notification stream. One
// feed exists per engine session; changes carry server timestamps used by
// conflict detection.
type SubscriptionFeed interface {
	// Subscribe opens the feed and returns a channel of remote changes.
	// The implementation reconnects with capped backoff on transport
	// failures and closes the channel only when ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan models.RemoteChange, error)
}
