package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		key     string
		want    Category
		wantErr bool
	}{
		{key: "sd", want: StronglyDisagree},
		{key: "D", want: Disagree},
		{key: " n/us ", want: Neutral},
		{key: "a", want: Agree},
		{key: "SA", want: StronglyAgree},
		{key: "n", wantErr: true},
		{key: "agree", wantErr: true},
		{key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := ParseCategory(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryMapping(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, NumCategories)

	assert.Equal(t, []string{"sd", "d", "n/us", "a", "sa"},
		[]string{cats[0].Key(), cats[1].Key(), cats[2].Key(), cats[3].Key(), cats[4].Key()})

	assert.Equal(t, "Strongly Disagree", StronglyDisagree.Label())
	assert.Equal(t, "Neutral/Unsure", Neutral.Label())
	assert.Equal(t, "#d62728", StronglyDisagree.Color())
	assert.Equal(t, "#ff7f0e", Disagree.Color())
	assert.Equal(t, "#2ca02c", Neutral.Color())
	assert.Equal(t, "#1f77b4", Agree.Color())
	assert.Equal(t, "#9467bd", StronglyAgree.Color())
	assert.Equal(t, "n/us", Neutral.String())

	invalid := Category(7)
	assert.False(t, invalid.Valid())
	assert.Equal(t, "category(7)", invalid.Key())
}
