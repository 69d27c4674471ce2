package printing

import (
	"image/color"

	"github.com/boombuler/barcode/code128"
	"github.com/parcelco/backoffice/internal/domain/document"
)

const (
	barcodeHeight = 60
	quietZone     = 10
)

// Barcode is an SVG-ready bar drawing of a tracking number
type Barcode struct {
	Text       string
	Bars       []document.Bar
	Width      int
	Height     int
	Decorative bool
}

// NewBarcode encodes the tracking number as Code 128. Text that Code 128
// cannot carry falls back to the decorative pattern, which encodes nothing.
func NewBarcode(trackingNumber string) Barcode {
	if bars, width, ok := code128Bars(trackingNumber); ok {
		return Barcode{Text: trackingNumber, Bars: bars, Width: width, Height: barcodeHeight}
	}

	bars := document.DecorativePattern(trackingNumber)
	width := quietZone * 2
	if n := len(bars); n > 0 {
		width += bars[n-1].X + bars[n-1].Width
		for i := range bars {
			bars[i].X += quietZone
		}
	}
	return Barcode{
		Text:       trackingNumber,
		Bars:       bars,
		Width:      width,
		Height:     barcodeHeight,
		Decorative: true,
	}
}

// code128Bars collapses runs of dark modules into bars offset by the quiet zone
func code128Bars(text string) ([]document.Bar, int, bool) {
	if text == "" {
		return nil, 0, false
	}
	code, err := code128.Encode(text)
	if err != nil {
		return nil, 0, false
	}

	bounds := code.Bounds()
	modules := bounds.Dx()
	var bars []document.Bar
	runStart := -1
	for x := 0; x < modules; x++ {
		dark := isDark(code.At(bounds.Min.X+x, bounds.Min.Y))
		switch {
		case dark && runStart < 0:
			runStart = x
		case !dark && runStart >= 0:
			bars = append(bars, document.Bar{X: runStart + quietZone, Width: x - runStart})
			runStart = -1
		}
	}
	if runStart >= 0 {
		bars = append(bars, document.Bar{X: runStart + quietZone, Width: modules - runStart})
	}
	return bars, modules + quietZone*2, len(bars) > 0
}

func isDark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 128
}
