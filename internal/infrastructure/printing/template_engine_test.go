package printing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/parcelco/backoffice/internal/domain/document"
	"github.com/parcelco/backoffice/internal/domain/shipment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *TemplateEngine {
	t.Helper()
	e, err := NewTemplateEngine(WithCompany(CompanyInfo{Name: "Acme Parcels"}))
	require.NoError(t, err)
	return e
}

func receiptWith(lines ...document.PackageLine) *document.Receipt {
	r := &document.Receipt{
		ReceiptNumber:  "RC-1",
		TrackingNumber: "PCL-ABC123",
		IssuedAt:       time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Sender:         shipment.Party{Name: "Ada <Lovelace>", City: "London", Country: "UK"},
		Receiver:       shipment.Party{Name: "Grace", City: "New York", Country: "US"},
		PaymentMode:    "BANK_TRANSFER",
		Currency:       "USD",
		ShippingCost:   decimal.RequireFromString("1234.5"),
		Packages:       lines,
	}
	return r
}

func TestTemplateEngine_RenderReceipt(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	t.Run("one row per package", func(t *testing.T) {
		r := receiptWith(
			document.PackageLine{Description: "Books", Quantity: 2, Weight: decimal.NewFromInt(3),
				Length: decimal.NewFromInt(30), Width: decimal.NewFromInt(20), Height: decimal.NewFromInt(10)},
			document.PackageLine{Description: "Shoes", Quantity: 1, Weight: decimal.NewFromInt(1)},
		)

		out, err := e.RenderReceipt(ctx, r)

		require.NoError(t, err)
		html := string(out)
		assert.Equal(t, 2, strings.Count(html, `class="package-row"`))
		assert.NotContains(t, html, `class="placeholder"`)
		assert.Contains(t, html, "Acme Parcels")
		assert.Contains(t, html, "USD 1,234.50")
		assert.Contains(t, html, "Bank Transfer")
		// 30*20*10*2/6000 = 2.00; actual 7.00
		assert.Contains(t, html, "7.00 kg")
		assert.Contains(t, html, "2.00 kg")
	})

	t.Run("placeholder row when empty", func(t *testing.T) {
		out, err := e.RenderReceipt(ctx, receiptWith())

		require.NoError(t, err)
		html := string(out)
		assert.Equal(t, 0, strings.Count(html, `class="package-row"`))
		assert.Equal(t, 1, strings.Count(html, `class="placeholder"`))
	})

	t.Run("escapes supplied text", func(t *testing.T) {
		out, err := e.RenderReceipt(ctx, receiptWith())

		require.NoError(t, err)
		assert.Contains(t, string(out), "Ada &lt;Lovelace&gt;")
	})

	t.Run("real barcode", func(t *testing.T) {
		out, err := e.RenderReceipt(ctx, receiptWith())

		require.NoError(t, err)
		assert.Contains(t, string(out), `data-symbology="code128"`)
		assert.NotContains(t, string(out), `data-decorative`)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := e.RenderReceipt(cctx, receiptWith())

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTemplateEngine_RenderWaybill(t *testing.T) {
	e := newEngine(t)
	w := &document.Waybill{
		TrackingNumber: "PCL-XYZ789",
		ShipDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Sender:         shipment.Party{Name: "Ada", City: "Lagos", Country: "NG"},
		Receiver:       shipment.Party{Name: "Grace", City: "Accra", Country: "GH"},
		Pieces:         3,
		Weight:         decimal.RequireFromString("4.5"),
		Currency:       "USD",
		Status:         "OUT_FOR_DELIVERY",
	}

	out, err := e.RenderWaybill(context.Background(), w)

	require.NoError(t, err)
	html := string(out)
	assert.Equal(t, 3, strings.Count(html, `class="copy"`))
	for _, label := range document.WaybillCopies {
		assert.Contains(t, html, `data-copy="`+label+`"`)
	}
	first := strings.Index(html, "ACCOUNTS COPY")
	second := strings.Index(html, "CONSIGNEE COPY")
	third := strings.Index(html, "SHIPPER COPY")
	assert.True(t, first < second && second < third)
	assert.Contains(t, html, "Lagos, NG")
	assert.Contains(t, html, "Out For Delivery")
	assert.Contains(t, html, "15 Mar 2026")
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		currency string
		amount   string
		want     string
	}{
		{"USD", "0", "USD 0.00"},
		{"USD", "1234567.891", "USD 1,234,567.89"},
		{"EUR", "-42.5", "EUR -42.50"},
		{"", "0.999", "1.00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(tt.currency, decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Picked Up", statusLabel("PICKED_UP"))
	assert.Equal(t, "Cod", statusLabel("COD"))
	assert.Equal(t, "", statusLabel(""))
}

func TestFormatDate(t *testing.T) {
	var nilTime *time.Time
	ts := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	assert.Equal(t, "", formatDate(nilTime))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "02 Jan 2026", formatDate(&ts))
	assert.Equal(t, "02 Jan 2026 03:04", formatDateTime(ts))
}
