package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "single part",
			body: `{"candidates":[{"content":{"parts":[{"text":"[1, 3, 2]"}],"role":"model"}}]}`,
			want: "[1, 3, 2]",
		},
		{
			name: "multiple parts joined",
			body: `{"candidates":[{"content":{"parts":[{"text":"Here you go:"},{"text":"[2,1,3]"}]}}]}`,
			want: "Here you go:\n[2,1,3]",
		},
		{
			name: "only first candidate",
			body: `{"candidates":[{"content":{"parts":[{"text":"a"}]}},{"content":{"parts":[{"text":"b"}]}}]}`,
			want: "a",
		},
		{
			name: "legacy output field",
			body: `{"candidates":[{"output":"[3,2,1]"}]}`,
			want: "[3,2,1]",
		},
		{
			name: "top level text",
			body: `{"text":"[1,2,3]"}`,
			want: "[1,2,3]",
		},
		{
			name: "unknown shape falls back to whole body",
			body: `{"promptFeedback":{"blockReason":"SAFETY"}}`,
			want: `{"promptFeedback":{"blockReason":"SAFETY"}}`,
		},
		{
			name: "empty parts fall back to whole body",
			body: `{"candidates":[{"content":{"parts":[]}}]}`,
			want: `{"candidates":[{"content":{"parts":[]}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractText_NotJSON(t *testing.T) {
	_, err := ExtractText([]byte("<html>502 Bad Gateway</html>"))
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}
