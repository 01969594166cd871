package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	models "github.com/rogerio-castellano/abc-console/internal/models"
)

// maxErrorBytes bounds how much of a non-2xx body is read.
const maxErrorBytes = 64 << 10

// ErrIncompleteResponse is returned for a 2xx body that lacks a required part,
// such as a null product list or a classification without its summary.
var ErrIncompleteResponse = errors.New("incomplete response")

// APIError is a non-2xx answer from the backend. Message carries the
// "error" field of the JSON body when there is one.
type APIError struct {
	StatusCode int
	Message    string
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

type contextKey string

const requestIDKey = contextKey("request_id")

// WithRequestID attaches an id that is sent as X-Request-ID on every call
// made with the returned context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id set by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	if val, ok := ctx.Value(requestIDKey).(string); ok {
		return val
	}
	return ""
}

// RESTProductRepository talks to the inventory backend over its JSON API.
type RESTProductRepository struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures RESTProductRepository behavior.
type Option func(*RESTProductRepository)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *RESTProductRepository) {
		r.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *RESTProductRepository) {
		r.httpClient = c
	}
}

func NewRESTProductRepository(baseURL string, opts ...Option) *RESTProductRepository {
	r := &RESTProductRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RESTProductRepository) Create(ctx context.Context, in ProductInput) error {
	return r.do(ctx, http.MethodPost, "/api/products", in, nil)
}

func (r *RESTProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		return nil, fmt.Errorf("GET /api/products: %w: no product list", ErrIncompleteResponse)
	}
	return products, nil
}

func (r *RESTProductRepository) Update(ctx context.Context, id models.ProductID, in ProductInput) error {
	return r.do(ctx, http.MethodPut, productPath(id), in, nil)
}

func (r *RESTProductRepository) Delete(ctx context.Context, id models.ProductID) error {
	return r.do(ctx, http.MethodDelete, productPath(id), nil, nil)
}

func (r *RESTProductRepository) Classify(ctx context.Context) (models.Classification, error) {
	var body classificationBody
	if err := r.do(ctx, http.MethodGet, "/api/abc-classification", nil, &body); err != nil {
		return models.Classification{}, err
	}
	return body.classification()
}

// classificationBody mirrors models.Classification with pointers so that
// missing parts can be told apart from zero values.
type classificationBody struct {
	Products []models.Product `json:"products"`
	Summary  *struct {
		A *models.CategorySummary `json:"A"`
		B *models.CategorySummary `json:"B"`
		C *models.CategorySummary `json:"C"`
	} `json:"summary"`
}

func (b classificationBody) classification() (models.Classification, error) {
	const route = "GET /api/abc-classification"
	if b.Products == nil {
		return models.Classification{}, fmt.Errorf("%s: %w: no product list", route, ErrIncompleteResponse)
	}
	if b.Summary == nil || b.Summary.A == nil || b.Summary.B == nil || b.Summary.C == nil {
		return models.Classification{}, fmt.Errorf("%s: %w: summary missing a category", route, ErrIncompleteResponse)
	}
	return models.Classification{
		Products: b.Products,
		Summary: models.ClassificationSummary{
			A: *b.Summary.A,
			B: *b.Summary.B,
			C: *b.Summary.C,
		},
	}, nil
}

func productPath(id models.ProductID) string {
	return "/api/products/" + url.PathEscape(id.String())
}

// do sends a single request. Non-2xx responses come back as *APIError;
// anything else that goes wrong is a transport error. There are no retries.
func (r *RESTProductRepository) do(ctx context.Context, method, path string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		if err != nil {
			return fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
		}
		return newAPIError(resp.StatusCode, raw)
	}

	if dest == nil {
		return nil
	}
	// The client timeout bounds the body; lists are never paginated.
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%s %s: failed to read JSON: %w", method, path, err)
	}
	return nil
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(raw)}
	if len(apiErr.Body) > 512 {
		apiErr.Body = apiErr.Body[:512]
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		apiErr.Message = payload.Error
	}
	return apiErr
}
