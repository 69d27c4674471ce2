package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/parcelco/backoffice/internal/domain/document"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templateFS embed.FS

// CompanyInfo is printed in document headers
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
}

// TemplateEngine renders receipts and waybills from embedded templates
type TemplateEngine struct {
	tmpl    *template.Template
	company CompanyInfo
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithCompany sets the header company details
func WithCompany(c CompanyInfo) TemplateEngineOption {
	return func(e *TemplateEngine) {
		e.company = c
	}
}

// NewTemplateEngine parses the embedded templates
func NewTemplateEngine(opts ...TemplateEngineOption) (*TemplateEngine, error) {
	e := &TemplateEngine{company: CompanyInfo{Name: "ParcelCo"}}
	for _, opt := range opts {
		opt(e)
	}

	tmpl, err := template.New("documents").Funcs(funcMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplate, "failed to parse document templates", err)
	}
	e.tmpl = tmpl
	return e, nil
}

type receiptView struct {
	Company CompanyInfo
	Receipt *document.Receipt
	Totals  document.Totals
	Barcode Barcode
}

type waybillView struct {
	Company CompanyInfo
	Waybill *document.Waybill
	Copies  []string
	Barcode Barcode
}

// RenderReceipt renders a receipt page
func (e *TemplateEngine) RenderReceipt(ctx context.Context, r *document.Receipt) ([]byte, error) {
	return e.execute(ctx, "receipt.html", receiptView{
		Company: e.company,
		Receipt: r,
		Totals:  r.Totals(),
		Barcode: NewBarcode(r.TrackingNumber),
	})
}

// RenderWaybill renders the three waybill copies on one page
func (e *TemplateEngine) RenderWaybill(ctx context.Context, w *document.Waybill) ([]byte, error) {
	return e.execute(ctx, "waybill.html", waybillView{
		Company: e.company,
		Waybill: w,
		Copies:  document.WaybillCopies,
		Barcode: NewBarcode(w.TrackingNumber),
	})
}

func (e *TemplateEngine) execute(ctx context.Context, name string, data any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to execute "+name, err)
	}
	return buf.Bytes(), nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDecimal":  formatDecimal,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"statusLabel":    statusLabel,
		"title":          titleCase,
		"upper":          strings.ToUpper,
		"default":        defaultString,
		"inc":            func(i int) int { return i + 1 },
	}
}

var printer = message.NewPrinter(language.English)

// formatMoney formats an amount with thousand separators and currency code
// Example: ("USD", 1234.5) -> "USD 1,234.50"
func formatMoney(currency string, d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	whole := d.Truncate(0).IntPart()
	frac := d.Sub(decimal.NewFromInt(whole)).StringFixed(2)
	amount := sign + printer.Sprintf("%d", whole) + strings.TrimPrefix(frac, "0")
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

func formatDecimal(d decimal.Decimal, precision int) string {
	return d.StringFixed(int32(precision))
}

// formatDate accepts time.Time or *time.Time; nil and zero render empty
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006 15:04")
}

// statusLabel turns OUT_FOR_DELIVERY into "Out For Delivery"
func statusLabel(s string) string {
	return titleCase(strings.ReplaceAll(strings.ToLower(s), "_", " "))
}

// titleCase builds a caser per call; casers are not safe for concurrent use
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func defaultString(val, def string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return val
}

func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	}
	return time.Time{}
}
