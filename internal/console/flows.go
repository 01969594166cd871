package console

import (
	"context"
	"errors"
	"strings"

	"github.com/rogerio-castellano/abc-console/internal/repo"
)

const (
	msgAddFailed     = "Failed to add product"
	msgAddError      = "An error occurred while adding the product"
	msgLoadError     = "An error occurred while loading products"
	msgRefreshError  = "An error occurred while updating ABC classification"
	msgUpdateFailed  = "Failed to update product"
	msgUpdateError   = "An error occurred while updating the product"
	msgDeleteFailed  = "Failed to delete product"
	msgDeleteError   = "An error occurred while deleting the product"
	msgConfirmDelete = "Are you sure you want to delete this product?"

	promptName        = "Enter new product name:"
	promptUnitPrice   = "Enter new unit price:"
	promptConsumption = "Enter new annual consumption:"
)

// reportMutation alerts the outcome of a rejected create, update or delete.
// A backend rejection shows its error text, or fallback when it has none.
// Anything else is logged and reported with the generic message.
func (c *Console) reportMutation(ctx context.Context, a action, err error, fallback, generic string) {
	var apiErr *repo.APIError
	if errors.As(err, &apiErr) {
		a.log.Warn("backend rejected request", "status", apiErr.StatusCode, "error", apiErr.Message)
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		c.dialogs.Alert(ctx, msg)
		return
	}
	a.log.Error("request failed", "error", err)
	c.dialogs.Alert(ctx, generic)
}

func (c *Console) submitProduct(ctx context.Context, a action) {
	form := c.Form()
	if !form.Complete() {
		a.log.Debug("form incomplete, not submitted")
		return
	}

	err := c.products.Create(ctx, repo.ProductInput{
		ProductName:       form.Name,
		UnitPrice:         form.UnitPrice,
		AnnualConsumption: form.AnnualConsumption,
	})
	if err != nil {
		c.reportMutation(ctx, a, err, msgAddFailed, msgAddError)
		return
	}

	c.resetForm()
	c.loadProducts(ctx, a)
	c.refreshClassification(ctx, a)
}

func (c *Console) loadProducts(ctx context.Context, a action) {
	products, err := c.products.GetAll(ctx)
	if err != nil {
		a.log.Error("could not load products", "error", err)
		c.dialogs.Alert(ctx, msgLoadError)
		return
	}
	c.renderTable(products)
	a.log.Debug("products rendered", "rows", len(products))
}

func (c *Console) refreshClassification(ctx context.Context, a action) {
	cl, err := c.products.Classify(ctx)
	if err != nil {
		a.log.Error("could not refresh classification", "error", err)
		c.dialogs.Alert(ctx, msgRefreshError)
		return
	}
	c.renderClassification(cl)
	a.log.Debug("classification rendered", "rows", len(cl.Products))
}

func (c *Console) editProduct(ctx context.Context, a action) {
	row := a.row
	name, _ := c.dialogs.Prompt(ctx, promptName, row.cell(CellName))
	price, _ := c.dialogs.Prompt(ctx, promptUnitPrice, strings.TrimPrefix(row.cell(CellPrice), "$"))
	consumption, _ := c.dialogs.Prompt(ctx, promptConsumption, row.cell(CellConsumption))

	if name == "" || price == "" || consumption == "" {
		a.log.Debug("edit cancelled", "product_id", row.ProductID)
		return
	}

	err := c.products.Update(ctx, row.ProductID, repo.ProductInput{
		ProductName:       name,
		UnitPrice:         price,
		AnnualConsumption: consumption,
	})
	if err != nil {
		c.reportMutation(ctx, a, err, msgUpdateFailed, msgUpdateError)
		return
	}

	c.loadProducts(ctx, a)
	c.refreshClassification(ctx, a)
}

func (c *Console) deleteProduct(ctx context.Context, a action) {
	if !c.dialogs.Confirm(ctx, msgConfirmDelete) {
		return
	}

	if err := c.products.Delete(ctx, a.row.ProductID); err != nil {
		c.reportMutation(ctx, a, err, msgDeleteFailed, msgDeleteError)
		return
	}

	c.loadProducts(ctx, a)
	c.refreshClassification(ctx, a)
}

func (r Row) cell(i int) string {
	if i < len(r.Cells) {
		return r.Cells[i]
	}
	return ""
}
