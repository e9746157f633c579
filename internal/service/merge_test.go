package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyfold/syncengine/models"
)

var mergeNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// ── account merges ───────────────────────────────────────────────────────────

func TestMergePayloads_AccountTagUnion(t *testing.T) {
	// Two devices each added a different tag to the same account while
	// offline. The merged entry carries both.
	local := models.AccountPayload{
		Label: "github",
		Tags:  []string{"personal"},
	}
	remote := models.AccountPayload{
		Label: "github",
		Tags:  []string{"work"},
	}

	merged, err := mergePayloads(local, remote, mergeNow)
	require.NoError(t, err)

	account, ok := merged.(models.AccountPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"personal", "work"}, account.Tags)
	assert.Equal(t, "github", account.Label)
	assert.Equal(t, mergeNow, account.UpdatedAt)
}

func TestMergePayloads_AccountScalarsAndFlags(t *testing.T) {
	tests := []struct {
		name   string
		local  models.AccountPayload
		remote models.AccountPayload
		want   models.AccountPayload
	}{
		{
			name:   "remote non-empty scalar wins",
			local:  models.AccountPayload{Label: "old label", Notes: "local notes"},
			remote: models.AccountPayload{Label: "new label"},
			want:   models.AccountPayload{Label: "new label", Notes: "local notes"},
		},
		{
			name:   "local fills empty remote secret",
			local:  models.AccountPayload{Secret: "cipher-local"},
			remote: models.AccountPayload{Issuer: "example.com"},
			want:   models.AccountPayload{Secret: "cipher-local", Issuer: "example.com"},
		},
		{
			name:   "favorite flag survives either side",
			local:  models.AccountPayload{IsFavorite: true},
			remote: models.AccountPayload{IsFavorite: false},
			want:   models.AccountPayload{IsFavorite: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := mergePayloads(tt.local, tt.remote, mergeNow)
			require.NoError(t, err)

			account, ok := merged.(models.AccountPayload)
			require.True(t, ok)

			tt.want.Tags = []string{}
			tt.want.UpdatedAt = mergeNow
			account.Tags = nonNil(account.Tags)
			assert.Equal(t, tt.want, account)
		})
	}
}

func TestMergePayloads_AccountAgainstMismatchedLocal(t *testing.T) {
	// A mismatched local variant means local state was corrupted or the
	// entity changed type; the remote version wins whole.
	remote := models.AccountPayload{Label: "github"}

	merged, err := mergePayloads(models.TagPayload{Name: "work"}, remote, mergeNow)
	require.NoError(t, err)
	assert.Equal(t, remote, merged)
}

// ── folder and tag merges ────────────────────────────────────────────────────

func TestMergePayloads_FolderAccountUnion(t *testing.T) {
	local := models.FolderPayload{
		Name:       "Banking",
		AccountIDs: []string{"acc-2", "acc-1"},
	}
	remote := models.FolderPayload{
		Name:        "Banking",
		Description: "money stuff",
		AccountIDs:  []string{"acc-3", "acc-1"},
	}

	merged, err := mergePayloads(local, remote, mergeNow)
	require.NoError(t, err)

	folder, ok := merged.(models.FolderPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"acc-1", "acc-2", "acc-3"}, folder.AccountIDs)
	assert.Equal(t, "money stuff", folder.Description)
}

func TestMergePayloads_TagColorPrefersRemote(t *testing.T) {
	local := models.TagPayload{Name: "work", Color: "#ff0000", AccountIDs: []string{"a"}}
	remote := models.TagPayload{Name: "work", Color: "#00ff00", AccountIDs: []string{"b"}}

	merged, err := mergePayloads(local, remote, mergeNow)
	require.NoError(t, err)

	tag, ok := merged.(models.TagPayload)
	require.True(t, ok)
	assert.Equal(t, "#00ff00", tag.Color)
	assert.Equal(t, []string{"a", "b"}, tag.AccountIDs)
}

// ── raw merges ───────────────────────────────────────────────────────────────

func TestMergePayloads_RawShallowMerge(t *testing.T) {
	local := models.RawPayload{
		Type:   "note",
		Fields: map[string]any{"title": "local title", "body": "local body"},
	}
	remote := models.RawPayload{
		Type:   "note",
		Fields: map[string]any{"title": "remote title", "pinned": true},
	}

	merged, err := mergePayloads(local, remote, mergeNow)
	require.NoError(t, err)

	raw, ok := merged.(models.RawPayload)
	require.True(t, ok)
	assert.Equal(t, "remote title", raw.Fields["title"])
	assert.Equal(t, "local body", raw.Fields["body"])
	assert.Equal(t, true, raw.Fields["pinned"])
	assert.Equal(t, mergeNow.Format(time.RFC3339Nano), raw.Fields["updated_at"])
}

func TestMergePayloads_Idempotent(t *testing.T) {
	local := models.AccountPayload{Tags: []string{"b", "a"}}
	remote := models.AccountPayload{Tags: []string{"c", "a"}}

	first, err := mergePayloads(local, remote, mergeNow)
	require.NoError(t, err)
	second, err := mergePayloads(first, remote, mergeNow)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
