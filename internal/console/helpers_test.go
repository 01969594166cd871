package console

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/abc-console/internal/models"
	"github.com/rogerio-castellano/abc-console/internal/repo"
)

type promptCall struct {
	message      string
	defaultValue string
}

// scriptedDialogs answers prompts from a queue and records what was shown.
type scriptedDialogs struct {
	mu       sync.Mutex
	alerts   []string
	prompts  []promptCall
	answers  []string // "" with ok=false is a cancel
	confirms []string
	confirm  bool
}

func (d *scriptedDialogs) Alert(_ context.Context, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts = append(d.alerts, message)
}

func (d *scriptedDialogs) Prompt(_ context.Context, message, defaultValue string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompts = append(d.prompts, promptCall{message, defaultValue})
	if len(d.answers) == 0 {
		return "", false
	}
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer, answer != ""
}

func (d *scriptedDialogs) Confirm(_ context.Context, message string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirms = append(d.confirms, message)
	return d.confirm
}

func (d *scriptedDialogs) Alerts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.alerts...)
}

type cannedResponse struct {
	status int
	body   string
}

// fakeBackend is a minimal stand-in for the inventory API. Classification is
// canned: every product lands in tier A unless classify is set.
type fakeBackend struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int
	requests []string
	inputs   []repo.ProductInput
	fail     map[string]cannedResponse
	classify func([]models.Product) models.Classification
	srv      *httptest.Server
}

func newFakeBackend(t *testing.T, products ...models.Product) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		products: products,
		nextID:   len(products) + 1,
		fail:     map[string]cannedResponse{},
	}

	r := chi.NewRouter()
	r.Use(b.record)
	r.Post("/api/products", b.create)
	r.Get("/api/products", b.list)
	r.Get("/api/abc-classification", b.classification)
	r.Put("/api/products/{id}", b.update)
	r.Delete("/api/products/{id}", b.remove)

	b.srv = httptest.NewServer(r)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) client() *repo.RESTProductRepository {
	return repo.NewRESTProductRepository(b.srv.URL)
}

func (b *fakeBackend) failWith(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[route] = cannedResponse{status, body}
}

func (b *fakeBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *fakeBackend) Inputs() []repo.ProductInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]repo.ProductInput(nil), b.inputs...)
}

func (b *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// canned writes the configured failure for the matched route, if any.
func (b *fakeBackend) canned(w http.ResponseWriter, r *http.Request) bool {
	route := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
	b.mu.Lock()
	resp, ok := b.fail[route]
	b.mu.Unlock()
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func productFromInput(id models.ProductID, in repo.ProductInput) models.Product {
	price, _ := strconv.ParseFloat(in.UnitPrice, 64)
	consumption, _ := strconv.ParseFloat(in.AnnualConsumption, 64)
	return models.Product{
		ID:                id,
		Name:              in.ProductName,
		UnitPrice:         price,
		AnnualConsumption: consumption,
		TotalValue:        price * consumption,
	}
}

func (b *fakeBackend) readInput(r *http.Request) repo.ProductInput {
	var in repo.ProductInput
	json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	b.inputs = append(b.inputs, in)
	b.mu.Unlock()
	return in
}

func (b *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	in := b.readInput(r)
	if b.canned(w, r) {
		return
	}
	b.mu.Lock()
	id := models.ProductID(strconv.Itoa(b.nextID))
	b.nextID++
	b.products = append(b.products, productFromInput(id, in))
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Product added successfully"})
}

func (b *fakeBackend) list(w http.ResponseWriter, r *http.Request) {
	if b.canned(w, r) {
		return
	}
	b.mu.Lock()
	products := append([]models.Product{}, b.products...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, products)
}

func (b *fakeBackend) classification(w http.ResponseWriter, r *http.Request) {
	if b.canned(w, r) {
		return
	}
	b.mu.Lock()
	products := append([]models.Product{}, b.products...)
	classify := b.classify
	b.mu.Unlock()

	if classify != nil {
		writeJSON(w, http.StatusOK, classify(products))
		return
	}
	for i := range products {
		products[i].Category = models.CategoryA
	}
	writeJSON(w, http.StatusOK, models.Classification{
		Products: products,
		Summary: models.ClassificationSummary{
			A: models.CategorySummary{Count: len(products), Percentage: 100},
		},
	})
}

func (b *fakeBackend) update(w http.ResponseWriter, r *http.Request) {
	in := b.readInput(r)
	if b.canned(w, r) {
		return
	}
	id := models.ProductID(chi.URLParam(r, "id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.products {
		if p.ID == id {
			b.products[i] = productFromInput(id, in)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product updated successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

func (b *fakeBackend) remove(w http.ResponseWriter, r *http.Request) {
	if b.canned(w, r) {
		return
	}
	id := models.ProductID(chi.URLParam(r, "id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.products {
		if p.ID == id {
			b.products = append(b.products[:i], b.products[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConsole(t *testing.T, products ...models.Product) (*Console, *fakeBackend, *scriptedDialogs) {
	t.Helper()
	backend := newFakeBackend(t, products...)
	dialogs := &scriptedDialogs{}
	return New(backend.client(), dialogs, discardLogger()), backend, dialogs
}

func widget() models.Product {
	return models.Product{ID: "1", Name: "Widget", UnitPrice: 2.5, AnnualConsumption: 100, TotalValue: 250}
}
