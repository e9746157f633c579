package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EntityPayload is the tagged union of entity payloads carried by sync
// events, queued operations, and conflicts. Each variant is strongly typed so
// merge logic can be checked exhaustively at compile time instead of poking
// at loosely-shaped maps.
type EntityPayload interface {
	// PayloadType reports which EntityType variant the payload is.
	PayloadType() EntityType
}

// AccountPayload is the sync-visible shape of a credential entry. The Secret
// field is opaque ciphertext: the engine moves it between stores without ever
// decrypting or validating it.
type AccountPayload struct {
	// Label is the user-visible name of the entry.
	Label string `json:"label"`

	// Issuer is the service the credential belongs to.
	Issuer string `json:"issuer"`

	// Secret is the encrypted credential blob. Opaque to the sync engine.
	Secret string `json:"secret"`

	// Notes holds free-form user notes.
	Notes string `json:"notes"`

	// Tags is the set of tag names attached to the account.
	Tags []string `json:"tags"`

	// IsFavorite marks the entry as pinned in the UI.
	IsFavorite bool `json:"is_favorite"`

	// UpdatedAt is the last local modification time.
	UpdatedAt time.Time `json:"updated_at"`
}

func (AccountPayload) PayloadType() EntityType { return EntityAccount }

// FolderPayload is the sync-visible shape of a folder.
type FolderPayload struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AccountIDs  []string  `json:"account_ids"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FolderPayload) PayloadType() EntityType { return EntityFolder }

// TagPayload is the sync-visible shape of a tag.
type TagPayload struct {
	Name       string    `json:"name"`
	Color      string    `json:"color"`
	AccountIDs []string  `json:"account_ids"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (TagPayload) PayloadType() EntityType { return EntityTag }

// RawPayload carries an entity type the engine has no dedicated variant for.
// It survives the round-trip through queue and remote store untouched and is
// merged with the default shallow-merge policy.
type RawPayload struct {
	Type   EntityType     `json:"type"`
	Fields map[string]any `json:"fields"`
}

func (r RawPayload) PayloadType() EntityType { return r.Type }

// EncodePayload serializes an EntityPayload to JSON for durable storage and
// network transfer. Nil payloads (delete events) encode to nil.
func EncodePayload(p EntityPayload) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", p.PayloadType(), err)
	}
	return raw, nil
}

// DecodePayload deserializes raw JSON into the payload variant selected by
// entityType. Unknown entity types decode into a RawPayload.
func DecodePayload(entityType EntityType, raw []byte) (EntityPayload, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	switch entityType {
	case EntityAccount:
		var p AccountPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode account payload: %w", err)
		}
		return p, nil
	case EntityFolder:
		var p FolderPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode folder payload: %w", err)
		}
		return p, nil
	case EntityTag:
		var p TagPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode tag payload: %w", err)
		}
		return p, nil
	default:
		fields := make(map[string]any)
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", entityType, err)
		}
		return RawPayload{Type: entityType, Fields: fields}, nil
	}
}
