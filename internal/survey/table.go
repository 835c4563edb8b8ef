package survey

import "sort"

// Counts holds one count per category, indexed by Category
type Counts [NumCategories]int

// Get returns the count for c
func (c Counts) Get(cat Category) int {
	return c[cat]
}

// Total is the respondent count: the sum over all categories
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Add returns the element-wise sum of c and o
func (c Counts) Add(o Counts) Counts {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Slice is one positive category share of a distribution
type Slice struct {
	Category Category
	Count    int
	Percent  float64
}

// Slices returns the categories with a positive count in display order,
// each with its percentage share of the total. Zero totals yield nil.
func (c Counts) Slices() []Slice {
	total := c.Total()
	if total <= 0 {
		return nil
	}

	slices := make([]Slice, 0, NumCategories)
	for _, cat := range Categories() {
		n := c[cat]
		if n <= 0 {
			continue
		}
		slices = append(slices, Slice{
			Category: cat,
			Count:    n,
			Percent:  100 * float64(n) / float64(total),
		})
	}
	return slices
}

// Row is one question with its response counts
type Row struct {
	Index    int
	Question string
	Counts   Counts
}

// Table is one loaded source file
type Table struct {
	Source string
	Path   string
	Rows   []Row
}

// Sum adds every row of the table
func (t *Table) Sum() Counts {
	var sum Counts
	for _, r := range t.Rows {
		sum = sum.Add(r.Counts)
	}
	return sum
}

// MaxRowTotal returns the largest per-row respondent total
func (t *Table) MaxRowTotal() int {
	largest := 0
	for _, r := range t.Rows {
		if total := r.Counts.Total(); total > largest {
			largest = total
		}
	}
	return largest
}

// Dataset maps source names to tables. Iteration is by source name.
type Dataset struct {
	tables   []*Table
	bySource map[string]*Table
}

// NewDataset builds a dataset. Later tables replace earlier ones with the
// same source name; the loader rejects such duplicates before this point.
func NewDataset(tables ...*Table) *Dataset {
	ds := &Dataset{bySource: make(map[string]*Table, len(tables))}
	for _, t := range tables {
		ds.bySource[t.Source] = t
	}
	for _, t := range ds.bySource {
		ds.tables = append(ds.tables, t)
	}
	sort.Slice(ds.tables, func(i, j int) bool {
		return ds.tables[i].Source < ds.tables[j].Source
	})
	return ds
}

// Tables returns the tables sorted by source name
func (ds *Dataset) Tables() []*Table {
	return ds.tables
}

// Table looks up a table by source name
func (ds *Dataset) Table(source string) (*Table, bool) {
	t, ok := ds.bySource[source]
	return t, ok
}

// Sources returns the source names in order
func (ds *Dataset) Sources() []string {
	names := make([]string, len(ds.tables))
	for i, t := range ds.tables {
		names[i] = t.Source
	}
	return names
}

// Len returns the number of sources
func (ds *Dataset) Len() int {
	return len(ds.tables)
}

// RowCount returns the number of rows across all sources
func (ds *Dataset) RowCount() int {
	n := 0
	for _, t := range ds.tables {
		n += len(t.Rows)
	}
	return n
}
