package document

// DecorativeBarCount is the number of bars in the decorative pattern
const DecorativeBarCount = 40

// Bar is one vertical bar of a barcode drawing, in module units
type Bar struct {
	X     int
	Width int
}

// DecorativePattern derives a stable bar pattern from the sum of the
// tracking number's character codes. It encodes nothing and must only be
// drawn as decoration.
func DecorativePattern(trackingNumber string) []Bar {
	sum := 0
	for _, r := range trackingNumber {
		sum += int(r)
	}
	bars := make([]Bar, 0, DecorativeBarCount)
	x := 0
	for i := 0; i < DecorativeBarCount; i++ {
		width := (sum+i*7)%3 + 1
		gap := (sum+i*3)%2 + 1
		bars = append(bars, Bar{X: x, Width: width})
		x += width + gap
	}
	return bars
}
