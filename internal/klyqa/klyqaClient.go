// Package klyqa talks to a Klyqa light over its local HTTP API.
package klyqa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/klyqa/internal/capabilities"
	"github.com/wheelibin/klyqa/internal/constants"
	"github.com/wheelibin/klyqa/internal/models"
)

const (
	infoPath    = "/info"
	statePath   = "/state"
	controlPath = "/control"
)

type Client struct {
	logger      *log.Logger
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(logger *log.Logger, host string, port int, accessToken string, timeout time.Duration) *Client {
	if port == 0 {
		port = constants.DefaultPort
	}
	if timeout == 0 {
		timeout = constants.RequestTimeout
	}
	return &Client{
		logger:      logger,
		baseURL:     "http://" + net.JoinHostPort(host, strconv.Itoa(port)),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// the body of a control request, in the device's vocabulary
type controlRequest struct {
	On          string             `json:"on"`
	Brightness  *models.Brightness `json:"brightness,omitempty"`
	Color       *models.RGBColor   `json:"color,omitempty"`
	Temperature *int               `json:"temperature,omitempty"`
}

func (c *Client) FetchInfo(ctx context.Context) (models.Info, error) {
	body, err := c.GET(ctx, infoPath)
	if err != nil {
		return models.Info{}, err
	}

	info := models.Info{}
	if err := json.Unmarshal(body, &info); err != nil {
		return models.Info{}, fmt.Errorf("error parsing device info: %w", err)
	}
	return info, nil
}

func (c *Client) FetchState(ctx context.Context) (models.State, error) {
	body, err := c.GET(ctx, statePath)
	if err != nil {
		return models.State{}, err
	}

	state := models.State{}
	if err := json.Unmarshal(body, &state); err != nil {
		return models.State{}, fmt.Errorf("error parsing device state: %w", err)
	}
	return state, nil
}

func (c *Client) SendControl(ctx context.Context, cmd models.ControlCommand) error {
	req := controlRequest{
		On:          capabilities.OnToNative(cmd.On),
		Color:       cmd.Color,
		Temperature: cmd.Temperature,
	}
	if cmd.Brightness != nil {
		req.Brightness = &models.Brightness{Percentage: *cmd.Brightness}
	}

	requestBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("error encoding control request: %w", err)
	}

	c.logger.Debug("sending control", "body", string(requestBody))
	_, err = c.PUT(ctx, controlPath, requestBody)
	return err
}

func (c *Client) GET(ctx context.Context, path string) ([]byte, error) {
	return c.makeRequest(ctx, http.MethodGet, path, nil)
}

func (c *Client) PUT(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.makeRequest(ctx, http.MethodPut, path, body)
}

func (c *Client) makeRequest(ctx context.Context, verb string, path string, body []byte) ([]byte, error) {
	op := verb + " " + path

	req, err := http.NewRequestWithContext(ctx, verb, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	// set headers
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// make the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		responseBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &ConnectionError{Op: op, Err: err}
		}
		return responseBody, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ConnectionError{Op: op, Err: ErrUnauthorized}
	default:
		c.logger.Error("Error making Klyqa API call", "path", path, "status", resp.Status)
		return nil, &ConnectionError{Op: op, Err: fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)}
	}
}
