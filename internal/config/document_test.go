package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKeys(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		in       map[string]any
		expected map[string]any
	}{
		{
			name:     "hyphens become underscores",
			in:       map[string]any{"server-image-tag": "v1", "region": "us-east-1"},
			expected: map[string]any{"server_image_tag": "v1", "region": "us-east-1"},
		},
		{
			name:     "already normalized keys pass through",
			in:       map[string]any{"server_image_tag": "v1"},
			expected: map[string]any{"server_image_tag": "v1"},
		},
		{
			name:     "empty map",
			in:       map[string]any{},
			expected: map[string]any{},
		},
		{
			name:     "values are preserved untouched",
			in:       map[string]any{"node-pools": []any{map[string]any{"name": "a"}}},
			expected: map[string]any{"node_pools": []any{map[string]any{"name": "a"}}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeKeys(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeKeysDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	in := map[string]any{"a-b": 1}

	_, err := NormalizeKeys(in)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a-b": 1}, in)
}

func TestNormalizeKeysRejectsCollidingKeys(t *testing.T) {
	t.Parallel()
	_, err := NormalizeKeys(map[string]any{"server-image": "a", "server_image": "b"})

	var serr *StructuralError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Error(), "server-image")
	assert.Contains(t, serr.Error(), "server_image")
}

func TestParseDocument(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte("true_name: acme\nclusters:\n  prod:\n    region: us-east-1\n"))
	require.NoError(t, err)
	assert.Equal(t, "acme", doc["true_name"])

	_, err = ParseDocument([]byte("{not yaml"))
	assert.Error(t, err)
}
