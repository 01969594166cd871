package console

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rogerio-castellano/abc-console/internal/chart"
	"github.com/rogerio-castellano/abc-console/internal/models"
)

// Column indexes of a table row.
const (
	CellName = iota
	CellPrice
	CellConsumption
	CellTotal
	CellCategory
)

// Columns are the table headers, in cell order.
var Columns = []string{"Name", "Unit Price", "Annual Consumption", "Total Value", "Category"}

// Form holds the new-product form fields exactly as typed.
type Form struct {
	Name              string `json:"productName"`
	UnitPrice         string `json:"unitPrice"`
	AnnualConsumption string `json:"annualConsumption"`
}

// Complete reports whether every required field has a value.
func (f Form) Complete() bool {
	return f.Name != "" && f.UnitPrice != "" && f.AnnualConsumption != ""
}

// Row is one rendered table row. Its edit and delete controls are bound at
// render time and are replaced whenever the table is re-rendered.
type Row struct {
	ProductID models.ProductID `json:"id"`
	Cells     []string         `json:"cells"`

	edit   func(context.Context)
	remove func(context.Context)
}

// Edit activates the row's edit control.
func (r Row) Edit(ctx context.Context) {
	if r.edit != nil {
		r.edit(ctx)
	}
}

// Delete activates the row's delete control.
func (r Row) Delete(ctx context.Context) {
	if r.remove != nil {
		r.remove(ctx)
	}
}

// Bound reports whether the row's controls are wired.
func (r Row) Bound() bool {
	return r.edit != nil && r.remove != nil
}

// Page is the rendered state of the console.
type Page struct {
	Form    Form       `json:"form"`
	Rows    []Row      `json:"rows"`
	Summary []string   `json:"summary"`
	Chart   *chart.Pie `json:"-"`
}

func (p Page) clone() Page {
	out := p
	out.Rows = append([]Row(nil), p.Rows...)
	for i := range out.Rows {
		out.Rows[i].Cells = append([]string(nil), p.Rows[i].Cells...)
	}
	out.Summary = append([]string(nil), p.Summary...)
	return out
}

func formatCurrency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func categoryCell(c models.Category) string {
	if c == "" {
		return "-"
	}
	return string(c)
}

func productRow(p models.Product) Row {
	return Row{
		ProductID: p.ID,
		Cells: []string{
			p.Name,
			formatCurrency(p.UnitPrice),
			formatCount(p.AnnualConsumption),
			formatCurrency(p.TotalValue),
			categoryCell(p.Category),
		},
	}
}

func summaryLine(c models.Category, s models.CategorySummary) string {
	return fmt.Sprintf("Category %s: %d products (%.2f%% of total value)", c, s.Count, s.Percentage)
}

var categoryColors = map[models.Category]string{
	models.CategoryA: "#007bff",
	models.CategoryB: "#28a745",
	models.CategoryC: "#ffc107",
}

func summaryPie(s models.ClassificationSummary) *chart.Pie {
	slices := make([]chart.Slice, 0, len(models.Categories))
	for _, c := range models.Categories {
		slices = append(slices, chart.Slice{
			Label: "Category " + string(c),
			Value: s.For(c).Percentage,
			Color: categoryColors[c],
		})
	}
	return chart.NewPie(slices...)
}
