package chart

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/gobold"

	"surveycharts/internal/config"
	"surveycharts/internal/survey"
)

// Output formats
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Font sizes in points
const (
	questionTitleSize = 12.0
	overallTitleSize  = 14.0
	percentSize       = 10.0
	legendSize        = 10.0
	footerSize        = 11.0
)

var (
	boldOnce sync.Once
	boldFace *truetype.Font
	boldErr  error
)

// BoldFont returns the parsed Go Bold typeface
func BoldFont() (*truetype.Font, error) {
	boldOnce.Do(func() {
		boldFace, boldErr = truetype.Parse(gobold.TTF)
	})
	return boldFace, boldErr
}

// Style holds the figure settings shared by every chart
type Style struct {
	Format string
	Width  int
	Height int
	DPI    float64
	Font   *truetype.Font
}

// NewStyle builds the chart style from the report configuration
func NewStyle(cfg config.ReportConfig) (Style, error) {
	font, err := BoldFont()
	if err != nil {
		return Style{}, fmt.Errorf("failed to load bold font: %w", err)
	}

	format := strings.ToLower(strings.TrimPrefix(cfg.Format, "."))
	if format != FormatPNG && format != FormatSVG {
		return Style{}, fmt.Errorf("unsupported chart format %q", cfg.Format)
	}

	width, height := cfg.PixelSize()
	if width <= 0 || height <= 0 {
		return Style{}, fmt.Errorf("invalid chart size %dx%d", width, height)
	}

	return Style{
		Format: format,
		Width:  width,
		Height: height,
		DPI:    cfg.DPI,
		Font:   font,
	}, nil
}

// Ext returns the file extension including the dot
func (s Style) Ext() string {
	return "." + s.Format
}

func (s Style) rendererProvider() gochart.RendererProvider {
	if s.Format == FormatSVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// px converts a length in points to pixels at the style's DPI
func (s Style) px(points float64) int {
	return int(points * s.DPI / 72.0)
}

var (
	colorText        = drawing.ColorBlack
	colorPercent     = drawing.ColorWhite
	colorPlaceholder = drawing.ColorFromHex("bfbfbf")
	colorLegendEdge  = drawing.ColorFromHex("cccccc")
)

// CategoryColor converts a category's #rrggbb colour for drawing
func CategoryColor(c survey.Category) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(c.Color(), "#"))
}
