package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected interface{}
		ok       bool
	}{
		{
			name:     "valid JSON object",
			input:    `{"a": 1}`,
			expected: map[string]interface{}{"a": 1.0},
			ok:       true,
		},
		{
			name:     "valid JSON array with whitespace",
			input:    "  [1, 2]\n",
			expected: []interface{}{1.0, 2.0},
			ok:       true,
		},
		{
			name:     "object embedded in prose",
			input:    "Here is the result:\n{\"state_abbr\": \"CA\"}\nThanks!",
			expected: map[string]interface{}{"state_abbr": "CA"},
			ok:       true,
		},
		{
			name:     "array in code fence",
			input:    "```json\n[{\"name\": \"General\"}]\n```",
			expected: []interface{}{map[string]interface{}{"name": "General"}},
			ok:       true,
		},
		{
			name:     "array wins when it starts first",
			input:    `see [1] and {"x": 2}`,
			expected: []interface{}{1.0},
			ok:       true,
		},
		{
			name:     "object wins when it starts first",
			input:    `result {"x": [1]} done`,
			expected: map[string]interface{}{"x": []interface{}{1.0}},
			ok:       true,
		},
		{
			name:     "two objects span greedily and fail",
			input:    `{"a":1} and {"b":2}`,
			expected: nil,
			ok:       false,
		},
		{
			name:     "no brackets",
			input:    "I could not find any hospitals.",
			expected: nil,
			ok:       false,
		},
		{
			name:     "closer before opener",
			input:    "] oops [",
			expected: nil,
			ok:       false,
		},
		{
			name:     "empty",
			input:    "",
			expected: nil,
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_ArrayStartingInsideLaterObject(t *testing.T) {
	// The '[' inside the object comes after '{', so the object span is tried first.
	got, ok := Extract(`note: {"items": ["a", "b"]}`)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"items": []interface{}{"a", "b"}}, got)
}

func TestExtractObject(t *testing.T) {
	obj, ok := ExtractObject(`Answer: {"overcharges": []}`)
	require.True(t, ok)
	assert.Contains(t, obj, "overcharges")

	_, ok = ExtractObject(`[1, 2, 3]`)
	assert.False(t, ok)
}

func TestExtractArray(t *testing.T) {
	arr, ok := ExtractArray("[{\"name\":\"A\"},{\"name\":\"B\"}]")
	require.True(t, ok)
	assert.Len(t, arr, 2)

	_, ok = ExtractArray(`{"name": "A"}`)
	assert.False(t, ok)
}
