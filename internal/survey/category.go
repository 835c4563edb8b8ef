package survey

import (
	"fmt"
	"strings"
)

// Category is one of the five Likert response keys. The set is closed.
type Category int

const (
	StronglyDisagree Category = iota
	Disagree
	Neutral
	Agree
	StronglyAgree
)

// NumCategories is the size of the closed category set
const NumCategories = 5

var categoryInfo = [NumCategories]struct {
	key   string
	label string
	color string
}{
	StronglyDisagree: {key: "sd", label: "Strongly Disagree", color: "#d62728"},
	Disagree:         {key: "d", label: "Disagree", color: "#ff7f0e"},
	Neutral:          {key: "n/us", label: "Neutral/Unsure", color: "#2ca02c"},
	Agree:            {key: "a", label: "Agree", color: "#1f77b4"},
	StronglyAgree:    {key: "sa", label: "Strongly Agree", color: "#9467bd"},
}

// Categories returns every category in display order
func Categories() []Category {
	return []Category{StronglyDisagree, Disagree, Neutral, Agree, StronglyAgree}
}

// Valid reports whether c is one of the five categories
func (c Category) Valid() bool {
	return c >= 0 && int(c) < NumCategories
}

// Key returns the column key, e.g. "n/us"
func (c Category) Key() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryInfo[c].key
}

// Label returns the display label, e.g. "Neutral/Unsure"
func (c Category) Label() string {
	if !c.Valid() {
		return c.Key()
	}
	return categoryInfo[c].label
}

// Color returns the fixed display colour as #rrggbb
func (c Category) Color() string {
	if !c.Valid() {
		return "#7f7f7f"
	}
	return categoryInfo[c].color
}

func (c Category) String() string {
	return c.Key()
}

// ParseCategory maps a column key to its category. Matching ignores case
// and surrounding whitespace.
func ParseCategory(key string) (Category, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, c := range Categories() {
		if categoryInfo[c].key == k {
			return c, nil
		}
	}
	return -1, fmt.Errorf("unknown response category %q", key)
}
