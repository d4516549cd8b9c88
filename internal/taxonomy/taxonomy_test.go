package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLoadsVocabulary(t *testing.T) {
	v := Get()
	require.NotEmpty(t, v.Colors)
	require.NotEmpty(t, v.Shapes)
	require.NotEmpty(t, v.Materials)

	assert.Contains(t, v.Colors, "red")
	assert.Contains(t, v.Shapes, "cylinder")
	assert.Contains(t, v.Materials, "brass")
}

func TestValidateValues(t *testing.T) {
	tests := []struct {
		name      string
		attribute string
		values    []string
		wantNorm  []string
		wantBad   []string
	}{
		{
			name:      "known colors normalized",
			attribute: "color",
			values:    []string{" Red ", "BLUE"},
			wantNorm:  []string{"red", "blue"},
		},
		{
			name:      "unknown material reported",
			attribute: "material",
			values:    []string{"brass", "vibranium"},
			wantNorm:  []string{"brass", "vibranium"},
			wantBad:   []string{"vibranium"},
		},
		{
			name:      "empty values skipped",
			attribute: "shape",
			values:    []string{"", "  ", "disc"},
			wantNorm:  []string{"disc"},
		},
		{
			name:      "unknown attribute rejects all",
			attribute: "smell",
			values:    []string{"sweet"},
			wantBad:   []string{"sweet"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			norm, unknown := ValidateValues(tt.attribute, tt.values)
			assert.Equal(t, tt.wantNorm, norm)
			assert.Equal(t, tt.wantBad, unknown)
		})
	}
}
