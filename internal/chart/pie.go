package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"

	"surveycharts/internal/survey"
)

// PlaceholderLabel marks a chart whose distribution has no responses
const PlaceholderLabel = "No responses"

const maxTitleLines = 4

// FooterText returns the respondent line printed under the pie
func FooterText(d survey.Distribution) string {
	if d.Scope == survey.ScopeGlobal {
		return fmt.Sprintf("Total Responses: %d", d.Respondents)
	}
	return fmt.Sprintf("Total Respondents: %d", d.Respondents)
}

// PercentLabel formats a slice share the way it is drawn on the slice
func PercentLabel(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}

// LegendLabel formats one legend entry
func LegendLabel(s survey.Slice) string {
	return fmt.Sprintf("%s: %d", s.Category.Label(), s.Count)
}

// Pie renders d as a single pie chart image to w
func Pie(w io.Writer, d survey.Distribution, s Style) error {
	fig := newFigure(d, s)

	pc := gochart.PieChart{
		Width:  s.Width,
		Height: s.Height,
		DPI:    s.DPI,
		Font:   s.Font,
		Background: gochart.Style{
			FillColor: drawing.ColorWhite,
			Padding:   fig.padding(),
		},
		Canvas: gochart.Style{
			FillColor: drawing.ColorWhite,
		},
		Values:   fig.values(),
		Elements: []gochart.Renderable{fig.drawTitle, fig.drawLegend, fig.drawFooter},
	}

	if err := pc.Render(s.rendererProvider(), w); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}

// figure is the precomputed text layout around one pie
type figure struct {
	style     Style
	slices    []survey.Slice
	title     []string
	titleSize float64
	footer    string

	titleFace  font.Face
	legendFace font.Face
	footerFace font.Face
}

func newFigure(d survey.Distribution, s Style) *figure {
	titleSize := overallTitleSize
	if d.Scope == survey.ScopeQuestion {
		titleSize = questionTitleSize
	}

	f := &figure{
		style:      s,
		slices:     d.Slices(),
		titleSize:  titleSize,
		footer:     FooterText(d),
		titleFace:  newFace(s, titleSize),
		legendFace: newFace(s, legendSize),
		footerFace: newFace(s, footerSize),
	}
	f.title = wrapText(f.titleFace, d.Title, s.Width-2*f.margin(), maxTitleLines)
	return f
}

func newFace(s Style, size float64) font.Face {
	return truetype.NewFace(s.Font, &truetype.Options{Size: size, DPI: s.DPI, Hinting: font.HintingFull})
}

func (f *figure) margin() int {
	return f.style.px(12)
}

func (f *figure) titleLineHeight() int {
	return f.style.px(f.titleSize * 1.35)
}

func (f *figure) padding() gochart.Box {
	m := f.margin()
	return gochart.Box{
		Top:    m + len(f.title)*f.titleLineHeight() + m,
		Left:   m,
		Right:  f.legendWidth() + 2*m,
		Bottom: f.style.px(footerSize*1.35) + 2*m,
		IsSet:  true,
	}
}

func (f *figure) values() []gochart.Value {
	switch len(f.slices) {
	case 0:
		return discValues(PlaceholderLabel, f.sliceStyle(colorPlaceholder, colorText))
	case 1:
		sl := f.slices[0]
		return discValues(PercentLabel(sl.Percent), f.sliceStyle(CategoryColor(sl.Category), colorPercent))
	}

	values := make([]gochart.Value, 0, len(f.slices))
	for _, sl := range f.slices {
		values = append(values, gochart.Value{
			Value: float64(sl.Count),
			Label: PercentLabel(sl.Percent),
			Style: f.sliceStyle(CategoryColor(sl.Category), colorPercent),
		})
	}
	return values
}

func (f *figure) sliceStyle(fill, text drawing.Color) gochart.Style {
	return gochart.Style{
		FillColor:   fill,
		StrokeColor: drawing.ColorWhite,
		StrokeWidth: float64(f.style.px(1)),
		FontColor:   text,
		FontSize:    percentSize,
		Font:        f.style.Font,
	}
}

// discValues draws a full disc as two equal halves. go-chart renders a
// lone value as an unfilled circle in its default palette.
func discValues(label string, style gochart.Style) []gochart.Value {
	style.StrokeColor = style.FillColor
	return []gochart.Value{
		{Value: 1, Label: label, Style: style},
		{Value: 1, Style: style},
	}
}

func (f *figure) drawTitle(r gochart.Renderer, _ gochart.Box, _ gochart.Style) {
	if len(f.title) == 0 {
		return
	}
	setText(r, f.style, f.titleSize, colorText)

	top := f.margin() + f.style.px(f.titleSize)
	for i, line := range f.title {
		width := font.MeasureString(f.titleFace, line).Ceil()
		r.Text(line, (f.style.Width-width)/2, top+i*f.titleLineHeight())
	}
}

func (f *figure) legendEntries() []string {
	entries := make([]string, len(f.slices))
	for i, sl := range f.slices {
		entries[i] = LegendLabel(sl)
	}
	return entries
}

func (f *figure) legendWidth() int {
	entries := f.legendEntries()
	if len(entries) == 0 {
		return 0
	}
	widest := 0
	for _, e := range entries {
		if w := font.MeasureString(f.legendFace, e).Ceil(); w > widest {
			widest = w
		}
	}
	pad := f.style.px(6)
	return pad + f.style.px(legendSize) + pad + widest + pad
}

func (f *figure) drawLegend(r gochart.Renderer, cb gochart.Box, _ gochart.Style) {
	entries := f.legendEntries()
	if len(entries) == 0 {
		return
	}

	pad := f.style.px(6)
	swatch := f.style.px(legendSize)
	rowHeight := f.style.px(legendSize * 1.6)
	width := f.legendWidth()
	height := len(entries)*rowHeight + 2*pad - (rowHeight - swatch)

	x0 := cb.Right + f.margin()
	if limit := f.style.Width - f.margin()/2 - width; x0 > limit {
		x0 = limit
	}
	y0 := (cb.Top+cb.Bottom)/2 - height/2

	fillRect(r, x0, y0, width, height, drawing.ColorWhite, colorLegendEdge, float64(f.style.px(0.8)))

	for i, entry := range entries {
		y := y0 + pad + i*rowHeight
		c := CategoryColor(f.slices[i].Category)
		fillRect(r, x0+pad, y, swatch, swatch, c, c, 1)

		setText(r, f.style, legendSize, colorText)
		r.Text(entry, x0+pad+swatch+pad, y+swatch)
	}
}

func (f *figure) drawFooter(r gochart.Renderer, cb gochart.Box, _ gochart.Style) {
	setText(r, f.style, footerSize, colorText)

	width := font.MeasureString(f.footerFace, f.footer).Ceil()
	x := (cb.Left+cb.Right)/2 - width/2
	y := cb.Bottom + f.margin() + f.style.px(footerSize)
	if limit := f.style.Height - f.margin()/2; y > limit {
		y = limit
	}
	r.Text(f.footer, x, y)
}

func setText(r gochart.Renderer, s Style, size float64, c drawing.Color) {
	r.SetFont(s.Font)
	r.SetFontSize(size)
	r.SetFontColor(c)
}

func fillRect(r gochart.Renderer, x, y, w, h int, fill, stroke drawing.Color, strokeWidth float64) {
	r.SetFillColor(fill)
	r.SetStrokeColor(stroke)
	r.SetStrokeWidth(strokeWidth)
	r.MoveTo(x, y)
	r.LineTo(x+w, y)
	r.LineTo(x+w, y+h)
	r.LineTo(x, y+h)
	r.LineTo(x, y)
	r.Close()
	r.FillStroke()
}

// wrapText breaks text into lines no wider than maxWidth. Words longer
// than a line are kept whole. Lines past maxLines are folded into the
// last line with an ellipsis.
func wrapText(face font.Face, text string, maxWidth, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = word
	}
	lines = append(lines, line)

	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = strings.TrimRight(lines[maxLines-1], " .,;:") + "..."
	}
	return lines
}
