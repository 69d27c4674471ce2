package document

import (
	"github.com/parcelco/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VolumetricDivisor converts cubic centimetres to volumetric kilograms
var VolumetricDivisor = decimal.NewFromInt(6000)

// PackageLine is one row of the receipt's package table
type PackageLine struct {
	Description string
	Quantity    int
	Weight      decimal.Decimal
	Length      decimal.Decimal
	Width       decimal.Decimal
	Height      decimal.Decimal
}

func (p PackageLine) validate() error {
	if p.Quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Package quantity must be positive")
	}
	if p.Weight.IsNegative() || p.Length.IsNegative() || p.Width.IsNegative() || p.Height.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Package measurements cannot be negative")
	}
	return nil
}

// ActualWeight is the unit weight times quantity
func (p PackageLine) ActualWeight() decimal.Decimal {
	return p.Weight.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// VolumetricWeight is L x W x H / 6000 times quantity
func (p PackageLine) VolumetricWeight() decimal.Decimal {
	return p.Length.Mul(p.Width).Mul(p.Height).
		Mul(decimal.NewFromInt(int64(p.Quantity))).
		Div(VolumetricDivisor)
}

// Totals are the summary rows under the package table
type Totals struct {
	Pieces           int
	ActualWeight     decimal.Decimal
	VolumetricWeight decimal.Decimal
	ChargeableWeight decimal.Decimal
}

// ComputeTotals sums the package lines. Weights are rounded to 2 places
// after summing; chargeable weight is the larger of actual and volumetric.
func ComputeTotals(lines []PackageLine) Totals {
	t := Totals{
		ActualWeight:     decimal.Zero,
		VolumetricWeight: decimal.Zero,
	}
	for _, l := range lines {
		t.Pieces += l.Quantity
		t.ActualWeight = t.ActualWeight.Add(l.ActualWeight())
		t.VolumetricWeight = t.VolumetricWeight.Add(l.VolumetricWeight())
	}
	t.ActualWeight = t.ActualWeight.Round(2)
	t.VolumetricWeight = t.VolumetricWeight.Round(2)
	t.ChargeableWeight = decimal.Max(t.ActualWeight, t.VolumetricWeight)
	return t
}
