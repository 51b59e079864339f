package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single round trip to the endpoint
const DefaultTimeout = 15 * time.Second

// isoMillis matches the instant format the endpoint already stores
const isoMillis = "2006-01-02T15:04:05.000Z"

// HTTPClient interface for testability
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds endpoint settings
type Config struct {
	Endpoint string
	Timeout  time.Duration
	// Location is used to read date-only values delivered as instants
	Location *time.Location
}

// Gateway talks to the spreadsheet-backed web endpoint: GET lists all
// rows, POST carries an action envelope.
type Gateway struct {
	endpoint   string
	httpClient HTTPClient
	loc        *time.Location
	logger     *zap.Logger
}

// NewGateway creates a gateway with its own http.Client
func NewGateway(cfg Config, logger *zap.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewGatewayWithClient(cfg, &http.Client{Timeout: timeout}, logger)
}

// NewGatewayWithClient creates a gateway over the given HTTP client
func NewGatewayWithClient(cfg Config, client HTTPClient, logger *zap.Logger) *Gateway {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		endpoint:   cfg.Endpoint,
		httpClient: client,
		loc:        loc,
		logger:     logger,
	}
}

var _ port.LeaveGateway = (*Gateway)(nil)

type actionRequest struct {
	Action  string         `json:"action"`
	ID      string         `json:"id,omitempty"`
	Status  string         `json:"status,omitempty"`
	Note    *string        `json:"note,omitempty"`
	Payload *createPayload `json:"payload,omitempty"`
}

type createPayload struct {
	FullName   string `json:"fullName"`
	Position   string `json:"position"`
	Department string `json:"department"`
	LeaveType  string `json:"leaveType"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	TotalDays  int    `json:"totalDays"`
	Reason     string `json:"reason"`
	Address    string `json:"address"`
	Contact    string `json:"contact"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// List reads every row
func (g *Gateway) List(ctx context.Context) ([]entity.LeaveRequest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("list request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read list response: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode list response: %w", err)
	}

	leaves := make([]entity.LeaveRequest, 0, len(rows))
	for i, row := range rows {
		leave, problems := decodeRow(row, g.loc)
		if len(problems) > 0 {
			g.logger.Debug("Coerced malformed row",
				zap.Int("row", i),
				zap.String("leave_id", leave.ID),
				zap.Strings("fields", problems))
		}
		leaves = append(leaves, leave)
	}

	return leaves, nil
}

// Create appends a row. The id is assigned by the endpoint.
func (g *Gateway) Create(ctx context.Context, leave *entity.LeaveRequest) error {
	payload := &createPayload{
		FullName:   leave.FullName,
		Position:   leave.Position,
		Department: leave.Department.Label(),
		LeaveType:  leave.LeaveType.Label(),
		StartDate:  leave.StartDate.String(),
		EndDate:    leave.EndDate.String(),
		TotalDays:  leave.TotalDays,
		Reason:     leave.Reason,
		Address:    leave.Address,
		Contact:    leave.Contact,
		Status:     leave.Status.Label(),
		CreatedAt:  leave.CreatedAt.UTC().Format(isoMillis),
	}
	return g.post(ctx, actionRequest{Action: "create", Payload: payload})
}

// Delete removes the row with the given id
func (g *Gateway) Delete(ctx context.Context, id string) error {
	return g.post(ctx, actionRequest{Action: "delete", ID: id})
}

// UpdateStatus changes the status and note of a row
func (g *Gateway) UpdateStatus(ctx context.Context, id string, status entity.LeaveStatus, note string) error {
	req := actionRequest{Action: "updateStatus", ID: id, Status: status.Label()}
	if note != "" {
		req.Note = &note
	}
	return g.post(ctx, req)
}

// post sends an action envelope. The response body carries nothing the
// client relies on and is discarded.
func (g *Gateway) post(ctx context.Context, action actionRequest) error {
	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action.Action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	// The endpoint parses the raw body itself
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", action.Action, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s request failed with status %d", action.Action, resp.StatusCode)
	}

	g.logger.Debug("Remote action sent",
		zap.String("action", action.Action),
		zap.String("leave_id", action.ID),
		zap.Int("status", resp.StatusCode))
	return nil
}
