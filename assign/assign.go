package assign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/openfms/sbd-device/parser"
)

const StatusSuccess = "success"

var ErrUnexpectedStatus = errors.New("unexpected assignment response status")

// Result is the answer of the flight assignment service.
type Result struct {
	Status string `json:"status"`
	Type   string `json:"type"`
	Flight any    `json:"flight"`
}

func (r *Result) Success() bool {
	return r.Status == StatusSuccess
}

//go:generate mockgen -source=$GOFILE -destination=mock_assign/assigner.go -package=mock_assign
type Assigner interface {
	Assign(ctx context.Context, point *parser.FlightPoint) (*Result, error)
}

var _ Assigner = &Client{}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

type assignRequest struct {
	Point *parser.FlightPoint `json:"point"`
}

// NewClient builds a client posting to baseURL with the api key as the key query parameter.
func NewClient(baseURL, apiKey string, timeout time.Duration) (*Client, error) {
	endpoint, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse assignment url: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", apiKey)
	endpoint.RawQuery = query.Encode()
	return &Client{
		endpoint:   endpoint.String(),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) Assign(ctx context.Context, point *parser.FlightPoint) (*Result, error) {
	body, err := json.Marshal(&assignRequest{Point: point})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assign point: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	result := &Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decode assignment response: %w", err)
	}
	return result, nil
}
