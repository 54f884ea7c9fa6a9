package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/lead-scout/internal/models"
)

func lead(id, name string) models.CRMLead {
	return models.CRMLead{
		BusinessOpportunity: models.BusinessOpportunity{
			ID:         id,
			Name:       name,
			Location:   "Austin, TX",
			LeadSource: models.SourceGoogleMaps,
			Needs:      models.Needs{Website: true, GMBIssues: true},
			Analysis:   "No site, stale listing.",
		},
		Status:     models.StatusContacted,
		DealAmount: 2500,
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "pipelinex_ai_export_2024-07-04.csv", Filename(now))
}

func TestWrite_QuotesEveryCell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []models.CRMLead{
		lead("1", "Alice's Café"),
		lead("2", `Joe "Pro" Plumbing`),
	}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], `"Name","Location","Source","Status","Potential Revenue"`))
	assert.True(t, strings.HasPrefix(lines[1], `"Alice's Café","Austin, TX","Google Maps","Contacted","2500"`))
	assert.True(t, strings.HasPrefix(lines[2], `"Joe ""Pro"" Plumbing",`))
	assert.Contains(t, lines[1], `"Yes","No","No","No","Yes","No site, stale listing.",""`)
}

func TestWrite_ParsesAsStandardCSV(t *testing.T) {
	l := lead("1", `Joe "Pro" Plumbing`)
	l.Analysis = "line one\nline two, with comma"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []models.CRMLead{l}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, `Joe "Pro" Plumbing`, records[1][0])
	assert.Equal(t, "line one\nline two, with comma", records[1][14])
}

func TestWrite_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, 1, strings.Count(buf.String(), "\r\n"))
}

func TestSelect(t *testing.T) {
	leads := []models.CRMLead{lead("1", "A"), lead("2", "B"), lead("3", "C")}

	got := Select(leads, []string{"3", "1", "missing"})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	assert.Len(t, Select(leads, nil), 3)
}
