package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var analysis = Catalog{
	{ID: 1, Name: "Analysis I", Abbreviations: []string{"ANA1"}},
	{ID: 2, Name: "Analysis II"},
}

func TestCatalog_Find(t *testing.T) {
	tests := []struct {
		name      string
		catalog   Catalog
		term      string
		wantOK    bool
		wantID    int64
		wantPhase Phase
	}{
		{
			name:      "abbreviation exact match",
			catalog:   analysis,
			term:      "ANA1",
			wantOK:    true,
			wantID:    1,
			wantPhase: PhaseAbbreviation,
		},
		{
			name:      "prefix picks first in catalog order",
			catalog:   analysis,
			term:      "analysis",
			wantOK:    true,
			wantID:    1,
			wantPhase: PhasePrefix,
		},
		{
			name:      "prefix can select a later module",
			catalog:   analysis,
			term:      "Analysis II",
			wantOK:    true,
			wantID:    2,
			wantPhase: PhasePrefix,
		},
		{
			name:    "no match",
			catalog: analysis,
			term:    "zzz",
		},
		{
			name:    "abbreviation is case-sensitive",
			catalog: Catalog{{ID: 7, Name: "Linear Algebra", Abbreviations: []string{"LA"}}},
			term:    "la",
		},
		{
			name: "abbreviation wins over an earlier name prefix",
			catalog: Catalog{
				{ID: 10, Name: "PROG Tools"},
				{ID: 11, Name: "Programming Basics", Abbreviations: []string{"PROG"}},
			},
			term:      "PROG",
			wantOK:    true,
			wantID:    11,
			wantPhase: PhaseAbbreviation,
		},
		{
			name:      "name prefix is case-insensitive",
			catalog:   Catalog{{ID: 3, Name: "Programming Basics"}},
			term:      "PROG",
			wantOK:    true,
			wantID:    3,
			wantPhase: PhasePrefix,
		},
		{
			name:    "mid-string name is not a match",
			catalog: Catalog{{ID: 3, Name: "Programming Basics"}},
			term:    "basics",
		},
		{
			name:    "abbreviations are not prefix-matched",
			catalog: Catalog{{ID: 4, Name: "Theoretical Computer Science", Abbreviations: []string{"TGI"}}},
			term:    "TG",
		},
		{
			name:      "whole name matches case-insensitively",
			catalog:   Catalog{{ID: 5, Name: "Physik"}},
			term:      "PHYSIK",
			wantOK:    true,
			wantID:    5,
			wantPhase: PhasePrefix,
		},
		{
			name: "first abbreviation match wins among duplicates",
			catalog: Catalog{
				{ID: 20, Name: "A", Abbreviations: []string{"X"}},
				{ID: 21, Name: "B", Abbreviations: []string{"Y", "X"}},
			},
			term:      "X",
			wantOK:    true,
			wantID:    20,
			wantPhase: PhaseAbbreviation,
		},
		{
			name:      "non-ascii names fold",
			catalog:   Catalog{{ID: 6, Name: "Ökonomie"}},
			term:      "ök",
			wantOK:    true,
			wantID:    6,
			wantPhase: PhasePrefix,
		},
		{
			name:    "empty catalog",
			catalog: Catalog{},
			term:    "anything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.catalog.Find(tt.term)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, Match{}, got)
				return
			}
			assert.Equal(t, tt.wantID, got.Module.ID)
			assert.Equal(t, tt.wantPhase, got.Phase)
			assert.Equal(t, tt.catalog[got.Index], got.Module)
		})
	}
}

func TestCatalog_FindConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, ok := analysis.Find("analysis ii")
			assert.True(t, ok)
			assert.Equal(t, int64(2), m.Module.ID)
		}()
	}
	wg.Wait()
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "none", PhaseNone.String())
	assert.Equal(t, "abbreviation", PhaseAbbreviation.String())
	assert.Equal(t, "prefix", PhasePrefix.String())
}
