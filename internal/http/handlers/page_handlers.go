package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/rogerio-castellano/abc-console/internal/console"
)

const chartSize = 240

type pageView struct {
	Columns []string
	Form    console.Form
	Rows    []console.Row
	Summary []string
	Chart   template.HTML
}

// PageHandler godoc
// @Summary Render the console page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (s *Server) PageHandler(w http.ResponseWriter, r *http.Request) {
	p := s.console.Page()
	view := pageView{
		Columns: console.Columns,
		Form:    p.Form,
		Rows:    p.Rows,
		Summary: p.Summary,
	}
	if p.Chart != nil {
		// The SVG is generated by the chart package with every label escaped.
		view.Chart = template.HTML(p.Chart.SVG(chartSize))
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, view); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// ChartHandler godoc
// @Summary Current ABC pie chart
// @Produce image/svg+xml
// @Success 200 {string} string "SVG document"
// @Failure 404 {string} string "No chart yet"
// @Router /chart.svg [get]
func (s *Server) ChartHandler(w http.ResponseWriter, r *http.Request) {
	p := s.console.Page()
	if p.Chart == nil {
		http.Error(w, "no chart yet", http.StatusNotFound)
		return
	}
	svg := p.Chart.SVG(chartSize)
	if svg == "" {
		http.Error(w, "no chart yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(svg))
}

// GetPageHandler godoc
// @Summary Snapshot of the console page
// @Produce json
// @Success 200 {object} PageResponse
// @Router /api/page [get]
func (s *Server) GetPageHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, pageResponse(s.console.Page())); err != nil {
		s.logger.Error("failed to write page snapshot", "error", err)
	}
}

// RefreshHandler godoc
// @Summary Refresh the ABC classification
// @Description Starts a classification refresh and returns before it finishes.
// @Success 202 {object} StatusResponse
// @Success 303 "Redirect to the page for browsers"
// @Router /refresh [post]
func (s *Server) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	s.console.Post(s.ctx, console.EventRefresh)

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err := writeJSON(w, http.StatusAccepted, StatusResponse{Status: "accepted"}); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// HealthHandler godoc
// @Summary Liveness probe
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
