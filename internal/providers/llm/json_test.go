package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "json fence",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "plain fence",
			in:   "```\n[1,2,3]\n```",
			want: `[1,2,3]`,
		},
		{
			name: "surrounding prose",
			in:   "Here is the result:\n{\"score\": 80}\nHope that helps!",
			want: `{"score": 80}`,
		},
		{
			name: "array before object wins",
			in:   `[{"q":"one"},{"q":"two"}]`,
			want: `[{"q":"one"},{"q":"two"}]`,
		},
		{
			name: "object containing arrays",
			in:   `{"items":[1,2]}`,
			want: `{"items":[1,2]}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Score int `json:"score"`
	}
	err := decodeJSON("```json\n{\"score\": 91}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, 91, out.Score)

	err = decodeJSON("the model refused to answer", &out)
	assert.Error(t, err)
}
