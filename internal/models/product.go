package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProductID is the server-assigned product identifier. The backend may send
// it as a JSON number or a string; either way it is kept as text.
type ProductID string

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid product id %s: %w", data, err)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string {
	return string(id)
}

// Category is an ABC tier. The zero value means the product has not been
// classified yet.
type Category string

const (
	CategoryA Category = "A"
	CategoryB Category = "B"
	CategoryC Category = "C"
)

// Categories lists the tiers in display order.
var Categories = []Category{CategoryA, CategoryB, CategoryC}

// Product represents a product record as returned by the backend.
type Product struct {
	ID                ProductID `json:"id"`
	Name              string    `json:"name"`
	UnitPrice         float64   `json:"unit_price"`
	AnnualConsumption float64   `json:"annual_consumption"`
	TotalValue        float64   `json:"total_value"`
	Category          Category  `json:"category,omitempty"`
}

// CategorySummary is the aggregate of one tier.
type CategorySummary struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Value      float64 `json:"value,omitempty"`
}

// ClassificationSummary holds the per-tier aggregates.
type ClassificationSummary struct {
	A CategorySummary `json:"A"`
	B CategorySummary `json:"B"`
	C CategorySummary `json:"C"`
}

// For returns the aggregate of the given tier.
func (s ClassificationSummary) For(c Category) CategorySummary {
	switch c {
	case CategoryA:
		return s.A
	case CategoryB:
		return s.B
	case CategoryC:
		return s.C
	}
	return CategorySummary{}
}

// Classification is the result of an ABC classification pass.
type Classification struct {
	Products []Product            `json:"products"`
	Summary  ClassificationSummary `json:"summary"`
}
