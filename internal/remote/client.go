package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"nursing-home-backend/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the remote API answers 404.
var ErrNotFound = errors.New("remote record not found")

// envelope is the remote API's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// APIError is a non-2xx answer or an unsuccessful envelope.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client reads and writes transfer data through the facility REST API. It
// has no transactions, so the transfer service compensates on failure.
type Client struct {
	reads  *resty.Client
	writes *resty.Client
	logger *zap.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	newClient := func() *resty.Client {
		c := resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json")
		if token != "" {
			c.SetAuthToken(token)
		}
		return c
	}

	// only reads are retried, a retried POST could open a second assignment
	reads := newClient().
		SetRetryCount(3).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	return &Client{
		reads:  reads,
		writes: newClient(),
		logger: logger.Named("remote"),
	}
}

func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := c.get(ctx, "/rooms", nil, &rooms)
	return rooms, err
}

func (c *Client) ListBeds(ctx context.Context) ([]models.Bed, error) {
	var beds []models.Bed
	err := c.get(ctx, "/beds", nil, &beds)
	return beds, err
}

func (c *Client) ListBedAssignments(ctx context.Context) ([]models.BedAssignment, error) {
	var assignments []models.BedAssignment
	err := c.get(ctx, "/bed-assignments", nil, &assignments)
	return assignments, err
}

func (c *Client) ListBedAssignmentsByResident(ctx context.Context, residentID uint) ([]models.BedAssignment, error) {
	var assignments []models.BedAssignment
	err := c.get(ctx, "/bed-assignments", map[string]string{"resident_id": formatID(residentID)}, &assignments)
	return assignments, err
}

func (c *Client) ListBedAssignmentsByBed(ctx context.Context, bedID uint) ([]models.BedAssignment, error) {
	var assignments []models.BedAssignment
	err := c.get(ctx, "/bed-assignments", map[string]string{"bed_id": formatID(bedID)}, &assignments)
	return assignments, err
}

func (c *Client) ListCarePlanAssignments(ctx context.Context, residentID uint) ([]models.CarePlanAssignment, error) {
	var assignments []models.CarePlanAssignment
	err := c.get(ctx, "/care-plan-assignments", map[string]string{"resident_id": formatID(residentID)}, &assignments)
	return assignments, err
}

func (c *Client) GetResident(ctx context.Context, id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := c.get(ctx, "/residents/"+formatID(id), nil, &resident); err != nil {
		return nil, err
	}
	return &resident, nil
}

func (c *Client) UpdateBedAssignment(ctx context.Context, id uint, updates map[string]interface{}) error {
	return c.send(ctx, resty.MethodPatch, "/bed-assignments/"+formatID(id), updates, nil)
}

// CreateBedAssignment posts the assignment and copies the stored record,
// including its new ID, back into it.
func (c *Client) CreateBedAssignment(ctx context.Context, assignment *models.BedAssignment) error {
	return c.send(ctx, resty.MethodPost, "/bed-assignments", assignment, assignment)
}

func (c *Client) UpdateCarePlanAssignment(ctx context.Context, id uint, updates map[string]interface{}) error {
	return c.send(ctx, resty.MethodPatch, "/care-plan-assignments/"+formatID(id), updates, nil)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	req := c.reads.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	return c.decode(resty.MethodGet, path, resp, err, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.writes.R().
		SetContext(ctx).
		SetBody(body).
		Execute(method, path)
	return c.decode(method, path, resp, err, out)
}

func (c *Client) decode(method, path string, resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		c.logger.Error("Remote API call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("failed to call remote API %s %s: %w", method, path, err)
	}

	var env envelope
	if len(resp.Body()) > 0 {
		if jsonErr := json.Unmarshal(resp.Body(), &env); jsonErr != nil && !resp.IsError() {
			return fmt.Errorf("failed to decode remote response for %s %s: %w", method, path, jsonErr)
		}
	}

	if resp.IsError() || !env.Success {
		apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode(), Message: env.Error}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		c.logger.Warn("Remote API returned error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status_code", apiErr.StatusCode),
			zap.String("error", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode remote data for %s %s: %w", method, path, err)
	}
	return nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
