package handlers

import (
	"github.com/rogerio-castellano/abc-console/internal/console"
)

type RowResponse struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

type SliceResponse struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type PageResponse struct {
	Columns []string        `json:"columns"`
	Form    console.Form    `json:"form"`
	Rows    []RowResponse   `json:"rows"`
	Summary []string        `json:"summary"`
	Chart   []SliceResponse `json:"chart,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func pageResponse(p console.Page) PageResponse {
	resp := PageResponse{
		Columns: console.Columns,
		Form:    p.Form,
		Rows:    make([]RowResponse, len(p.Rows)),
		Summary: p.Summary,
	}
	if resp.Summary == nil {
		resp.Summary = []string{}
	}
	for i, row := range p.Rows {
		resp.Rows[i] = RowResponse{ID: row.ProductID.String(), Cells: row.Cells}
	}
	if p.Chart != nil {
		for _, s := range p.Chart.Slices() {
			resp.Chart = append(resp.Chart, SliceResponse{Label: s.Label, Value: s.Value, Color: s.Color})
		}
	}
	return resp
}
