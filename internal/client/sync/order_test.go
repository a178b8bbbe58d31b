package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iudanet/keepsake/internal/client/remote"
	"github.com/iudanet/keepsake/internal/models"
)

func TestApplyQuery(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []models.Record{
		{ID: "c", CreatedAt: t0.Add(time.Hour), Fields: map[string]any{"title": "Beach"}},
		{ID: "a", CreatedAt: t0.Add(2 * time.Hour), Fields: map[string]any{"title": 7.0}},
		{ID: "d", CreatedAt: t0, Fields: map[string]any{}},
		{ID: "b", CreatedAt: t0.Add(time.Hour), Fields: map[string]any{"title": "Attic"}},
	}

	tests := []struct {
		name  string
		query remote.QueryOptions
		want  []string
	}{
		{name: "default is id ascending", query: remote.QueryOptions{}, want: []string{"a", "b", "c", "d"}},
		{name: "limit", query: remote.QueryOptions{Limit: 2}, want: []string{"a", "b"}},
		{name: "created_at ties by id", query: remote.QueryOptions{OrderBy: "created_at"}, want: []string{"d", "b", "c", "a"}},
		{name: "created_at descending", query: remote.QueryOptions{OrderBy: "created_at", Descending: true}, want: []string{"a", "b", "c", "d"}},
		{name: "field: null, number, text", query: remote.QueryOptions{OrderBy: "title"}, want: []string{"d", "a", "b", "c"}},
		{name: "field descending with limit", query: remote.QueryOptions{OrderBy: "title", Descending: true, Limit: 1}, want: []string{"c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, recordIDs(applyQuery(records, tt.query)))
		})
	}

	// Исходный срез не переупорядочивается
	assert.Equal(t, "c", records[0].ID)
}
