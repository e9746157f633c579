package service

import (
	"fmt"
	"sort"
	"time"

	"dario.cat/mergo"

	"github.com/keyfold/syncengine/models"
)

// mergePayloads deterministically combines two divergent versions of the
// same entity. The rules per entity type:
//
//   - Account: scalar fields prefer the non-empty remote value, falling back
//     to local; tags form a set union; boolean flags are OR'd.
//   - Folder, Tag: scalars follow the same rule; account id lists form a set
//     union.
//   - Anything else: shallow merge with remote fields taking precedence.
//
// The merged payload's UpdatedAt becomes now. Set unions are sorted so the
// merge is order-independent and idempotent.
func mergePayloads(local, remote models.EntityPayload, now time.Time) (models.EntityPayload, error) {
	switch remoteTyped := remote.(type) {
	case models.AccountPayload:
		localTyped, ok := local.(models.AccountPayload)
		if !ok {
			return remote, nil
		}
		return models.AccountPayload{
			Label:      preferNonEmpty(remoteTyped.Label, localTyped.Label),
			Issuer:     preferNonEmpty(remoteTyped.Issuer, localTyped.Issuer),
			Secret:     preferNonEmpty(remoteTyped.Secret, localTyped.Secret),
			Notes:      preferNonEmpty(remoteTyped.Notes, localTyped.Notes),
			Tags:       unionSorted(localTyped.Tags, remoteTyped.Tags),
			IsFavorite: localTyped.IsFavorite || remoteTyped.IsFavorite,
			UpdatedAt:  now,
		}, nil

	case models.FolderPayload:
		localTyped, ok := local.(models.FolderPayload)
		if !ok {
			return remote, nil
		}
		return models.FolderPayload{
			Name:        preferNonEmpty(remoteTyped.Name, localTyped.Name),
			Description: preferNonEmpty(remoteTyped.Description, localTyped.Description),
			AccountIDs:  unionSorted(localTyped.AccountIDs, remoteTyped.AccountIDs),
			UpdatedAt:   now,
		}, nil

	case models.TagPayload:
		localTyped, ok := local.(models.TagPayload)
		if !ok {
			return remote, nil
		}
		return models.TagPayload{
			Name:       preferNonEmpty(remoteTyped.Name, localTyped.Name),
			Color:      preferNonEmpty(remoteTyped.Color, localTyped.Color),
			AccountIDs: unionSorted(localTyped.AccountIDs, remoteTyped.AccountIDs),
			UpdatedAt:  now,
		}, nil

	case models.RawPayload:
		return mergeRaw(local, remoteTyped, now)

	default:
		return remote, nil
	}
}

// mergeRaw shallow-merges unknown entity types: remote fields win, local
// fills the gaps.
func mergeRaw(local models.EntityPayload, remote models.RawPayload, now time.Time) (models.EntityPayload, error) {
	merged := make(map[string]any, len(remote.Fields))
	for k, v := range remote.Fields {
		merged[k] = v
	}

	if localTyped, ok := local.(models.RawPayload); ok {
		if err := mergo.Merge(&merged, localTyped.Fields); err != nil {
			return nil, fmt.Errorf("shallow merge of %s payloads: %w", remote.Type, err)
		}
	}

	merged["updated_at"] = now.Format(time.RFC3339Nano)

	return models.RawPayload{Type: remote.Type, Fields: merged}, nil
}

func preferNonEmpty(remote, local string) string {
	if remote != "" {
		return remote
	}
	return local
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, v := range a {
		seen[v] = struct{}{}
	}
	for _, v := range b {
		seen[v] = struct{}{}
	}

	union := make([]string, 0, len(seen))
	for v := range seen {
		union = append(union, v)
	}
	sort.Strings(union)

	return union
}
