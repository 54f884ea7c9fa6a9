package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(t *testing.T, records []any) []string {
	t.Helper()
	out := make([]string, 0, len(records))
	for _, r := range records {
		m, ok := r.(map[string]any)
		require.True(t, ok, "record is not an object: %v", r)
		out = append(out, m["name"].(string))
	}
	return out
}

func TestRecords_ValidArrayVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bare", `[{"name":"A"},{"name":"B"},{"name":"C"}]`},
		{"fenced json", "Here you go:\n```json\n[{\"name\":\"A\"},{\"name\":\"B\"},{\"name\":\"C\"}]\n```\nLet me know."},
		{"fenced plain", "```\n[{\"name\":\"A\"},{\"name\":\"B\"},{\"name\":\"C\"}]\n```"},
		{"prose wrapped", `I found these: [{"name":"A"},{"name":"B"},{"name":"C"}] -- hope it helps!`},
		{"whitespace", "\n\n   [{\"name\":\"A\"},{\"name\":\"B\"},{\"name\":\"C\"}]   \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Records(tt.text)
			assert.Equal(t, []string{"A", "B", "C"}, names(t, got))
		})
	}
}

func TestRecords_SecondFencedBlockWins(t *testing.T) {
	text := "```\nnot json at all\n```\nand then\n```json\n[{\"name\":\"X\"}]\n```"
	assert.Equal(t, []string{"X"}, names(t, Records(text)))
}

func TestRecords_WrapperKeys(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"leads", `{"leads":[{"name":"L"}]}`, []string{"L"}},
		{"jobs", `{"jobs":[{"name":"J"}]}`, []string{"J"}},
		{"results", `{"results":[{"name":"R"}]}`, []string{"R"}},
		{"data", `{"data":[{"name":"D"}]}`, []string{"D"}},
		{"leads before data", `{"data":[{"name":"D"}],"leads":[{"name":"L"}]}`, []string{"L"}},
		{"non-array leads skipped", `{"leads":"none","results":[{"name":"R"}]}`, []string{"R"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(t, Records(tt.text)))
		})
	}
}

func TestRecords_TruncatedAfterCompleteElement(t *testing.T) {
	text := `[{"name":"A"},{"name":"B"}`
	assert.Equal(t, []string{"A", "B"}, names(t, Records(text)))
}

func TestRecords_TruncatedMidElement(t *testing.T) {
	text := "[{\"name\":\"A\",\"needs\":{\"seo\":true}},{\"name\":\"B\"},{\"name\":\"C\",\"loc"
	assert.Equal(t, []string{"A", "B"}, names(t, Records(text)))
}

func TestRecords_TruncatedBehindOpenFenceIsNotRecovered(t *testing.T) {
	// The unterminated fence marker stays in front of the array, so no
	// candidate starts with valid JSON.
	text := "```json\n[{\"name\":\"A\"},{\"name\":\"B\"},{\"name\":\"C\",\"loc"
	assert.Empty(t, Records(text))
}

func TestRecords_TruncatedInsideNestedArray(t *testing.T) {
	text := `[{"name":"A","tags":["x"]},{"name":"B","tags":["y","z`
	assert.Equal(t, []string{"A"}, names(t, Records(text)))
}

func TestRecords_NothingRecoverable(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"I could not find any businesses matching that query.",
		`{"message":"no results"}`,
		"[this is not json]",
		"```\n```",
	} {
		got := Records(text)
		require.NotNil(t, got, "input %q", text)
		assert.Empty(t, got, "input %q", text)
	}
}

func TestRecords_PreservesScalarElements(t *testing.T) {
	got := Records(`[1, "two", {"name":"three"}]`)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], 0.0001)
	assert.Equal(t, "two", got[1])
}

func TestObjects_SkipsNonObjects(t *testing.T) {
	got := Objects(`[1, "two", {"name":"three"}, null]`)
	require.Len(t, got, 1)
	assert.Equal(t, "three", got[0]["name"])
}
