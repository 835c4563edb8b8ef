package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycharts/internal/errors"
)

func testDataset() *Dataset {
	return NewDataset(
		&Table{Source: "STAFF", Rows: []Row{
			{Index: 0, Question: "Q1", Counts: Counts{2, 0, 1, 3, 0}},
			{Index: 1, Question: "Q2", Counts: Counts{1, 1, 1, 1, 1}},
		}},
		&Table{Source: "students", Rows: []Row{
			{Index: 0, Question: "Q1", Counts: Counts{0, 0, 0, 0, 10}},
		}},
	)
}

func TestQuestionDistributions(t *testing.T) {
	table, _ := testDataset().Table("STAFF")
	dists := QuestionDistributions(table)
	require.Len(t, dists, 2)

	assert.Equal(t, ScopeQuestion, dists[0].Scope)
	assert.Equal(t, "STAFF", dists[0].Source)
	assert.Equal(t, 0, dists[0].Index)
	assert.Equal(t, "Q1", dists[0].Title)
	assert.Equal(t, 6, dists[0].Respondents)
	assert.Equal(t, 1, dists[1].Index)
	assert.Equal(t, 5, dists[1].Respondents)
}

func TestCategoryDistribution(t *testing.T) {
	table, _ := testDataset().Table("STAFF")

	t.Run("first row", func(t *testing.T) {
		d, err := CategoryDistribution(table, CategoryFirstRow)
		require.NoError(t, err)
		assert.Equal(t, Counts{2, 0, 1, 3, 0}, d.Counts)
		assert.Equal(t, 6, d.Respondents)
		assert.Equal(t, "Overall Response Distribution for Staff", d.Title)
		assert.Equal(t, -1, d.Index)
	})

	t.Run("sum", func(t *testing.T) {
		d, err := CategoryDistribution(table, CategorySum)
		require.NoError(t, err)
		assert.Equal(t, Counts{3, 1, 2, 4, 1}, d.Counts)
		assert.Equal(t, 11, d.Respondents)
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := CategoryDistribution(&Table{Source: "empty"}, CategoryFirstRow)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

		d, err := CategoryDistribution(&Table{Source: "empty"}, CategorySum)
		require.NoError(t, err)
		assert.Equal(t, 0, d.Respondents)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := CategoryDistribution(table, CategoryMode("median"))
		assert.Error(t, err)
	})
}

func TestGlobalDistribution(t *testing.T) {
	ds := testDataset()

	d, err := GlobalDistribution(ds, RespondentsMaxRow)
	require.NoError(t, err)
	assert.Equal(t, ScopeGlobal, d.Scope)
	assert.Equal(t, GlobalTitle, d.Title)
	assert.Equal(t, Counts{3, 1, 2, 4, 11}, d.Counts)
	assert.Equal(t, 10, d.Respondents)

	// Each category total equals the sum over every row of every source
	for _, cat := range Categories() {
		want := 0
		for _, table := range ds.Tables() {
			for _, r := range table.Rows {
				want += r.Counts.Get(cat)
			}
		}
		assert.Equal(t, want, d.Counts.Get(cat), cat.Key())
	}

	d, err = GlobalDistribution(ds, RespondentsSum)
	require.NoError(t, err)
	assert.Equal(t, 21, d.Respondents)

	_, err = GlobalDistribution(ds, RespondentMode("avg"))
	assert.Error(t, err)
}

func TestCapitalizeSource(t *testing.T) {
	assert.Equal(t, "Staff", CapitalizeSource("STAFF"))
	assert.Equal(t, "Student survey", CapitalizeSource("student Survey"))
	assert.Equal(t, "Élèves", CapitalizeSource("éLÈVES"))
	assert.Equal(t, "", CapitalizeSource(""))
}
