package repo

import (
	"context"

	"github.com/rogerio-castellano/abc-console/internal/models"
)

// ProductInput is the payload of create and update requests. Numeric fields
// are passed through as typed; the backend parses and validates them.
type ProductInput struct {
	ProductName       string `json:"productName"`
	UnitPrice         string `json:"unitPrice"`
	AnnualConsumption string `json:"annualConsumption"`
}

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, in ProductInput) error
	GetAll(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id models.ProductID, in ProductInput) error
	Delete(ctx context.Context, id models.ProductID) error
	Classify(ctx context.Context) (models.Classification, error)
}
