// internal/enrichment/parse_test.go
package enrichment

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseTagsFencedOutput(t *testing.T) {
	item := map[string]string{"output": "```json\n{\"interests\": [\"ai\",\"climate\"]}\n```"}
	body, err := json.Marshal([]map[string]string{item})
	require.NoError(t, err)

	tags, err := parseTags(body)
	require.NoError(t, err)

	sort.Strings(tags)
	assert.Equal(t, []string{"ai", "climate"}, tags)
}

func TestParseTagsUnfencedOutput(t *testing.T) {
	body := []byte(`[{"output": "{\"skills\": [\"go\"], \"hobbies\": [\"chess\", \"go\"]}"}]`)

	tags, err := parseTags(body)
	require.NoError(t, err)

	// Duplicates across categories are preserved, not deduplicated.
	sort.Strings(tags)
	assert.Equal(t, []string{"chess", "go", "go"}, tags)
}

func TestParseTagsRejectsMalformedResponses(t *testing.T) {
	cases := map[string]struct {
		body  []byte
		stage string
	}{
		"not json":           {[]byte(`it broke`), StageDecode},
		"empty sequence":     {[]byte(`[]`), StageDecode},
		"object not array":   {[]byte(`{"output": "{}"}`), StageDecode},
		"output not mapping": {[]byte(`[{"output": "[1,2,3]"}]`), StageParse},
		"output not json":    {[]byte(`[{"output": "hello"}]`), StageParse},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseTags(tc.body)
			require.Error(t, err)
			var stageErr *StageError
			require.ErrorAs(t, err, &stageErr)
			assert.Equal(t, tc.stage, stageErr.Stage)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, stripCodeFence("```json\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripCodeFence("```\n{\"a\": 1}\n```"))
	assert.Equal(t, `{"a": 1}`, stripCodeFence(`{"a": 1}`))
	assert.Equal(t, "", stripCodeFence("```"))
	assert.Equal(t, "", stripCodeFence("  \n\t"))
}

func TestParseTagsFlattensAllCategories(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		categories := rapid.MapOfN(
			rapid.StringMatching(`[a-z_]{1,12}`),
			rapid.SliceOfN(rapid.StringMatching(`[a-z0-9 -]{1,16}`), 0, 6),
			0, 6,
		).Draw(t, "categories")

		payload, err := json.Marshal(categories)
		require.NoError(t, err)

		item := map[string]string{"output": "```json\n" + string(payload) + "\n```"}
		body, err := json.Marshal([]map[string]string{item})
		require.NoError(t, err)

		tags, err := parseTags(body)
		require.NoError(t, err)

		expected := make([]string, 0)
		for _, list := range categories {
			expected = append(expected, list...)
		}
		sort.Strings(expected)
		sort.Strings(tags)
		assert.Equal(t, expected, tags, "flattening must keep every tag from every category")
	})
}
