package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/opsmind/phonesystem/backend/internal/metrics"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

const maxResponseBytes = 16 << 20

// APIError is a non-2xx response from the platform.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsNotFound reports whether err is a platform 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the voice-AI platform REST API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new platform client
func NewClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("component", "platform_client").Logger(),
	}
}

// do sends one request and returns the body of a 2xx response. endpoint is
// the metrics label and must not contain ids.
func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body io.Reader, contentType string) ([]byte, error) {
	m := metrics.Get()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		m.RecordUpstreamError()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("platform request failed")
		return nil, fmt.Errorf("failed to reach platform %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	m.RecordUpstreamRequest(endpoint, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		m.RecordUpstreamError()
		return nil, fmt.Errorf("failed to read platform %s response: %w", endpoint, err)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("platform request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		m.RecordUpstreamError()
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, endpoint, path, query, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode platform %s response: %w", endpoint, err)
	}
	return nil
}

// ListCalls fetches the calls matching filter.
func (c *Client) ListCalls(ctx context.Context, filter types.CallFilter) ([]types.CallRecord, error) {
	query := url.Values{}
	if filter.AssistantID != "" {
		query.Set("assistantId", filter.AssistantID)
	}
	if filter.PhoneNumberID != "" {
		query.Set("phoneNumberId", filter.PhoneNumberID)
	}

	data, err := c.do(ctx, http.MethodGet, "list_calls", "/call", query, nil, "")
	if err != nil {
		return nil, err
	}
	return types.DecodeCallList(data)
}

// GetCall fetches one call.
func (c *Client) GetCall(ctx context.Context, callID string) (types.CallRecord, error) {
	data, err := c.do(ctx, http.MethodGet, "get_call", "/call/"+url.PathEscape(callID), nil, nil, "")
	if err != nil {
		return types.CallRecord{}, err
	}
	return types.DecodeCall(data)
}

// GetAssistant fetches one assistant.
func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*types.Assistant, error) {
	var assistant types.Assistant
	if err := c.getJSON(ctx, "get_assistant", "/assistant/"+url.PathEscape(assistantID), nil, &assistant); err != nil {
		return nil, err
	}
	return &assistant, nil
}

// GetPhoneNumber fetches one phone number.
func (c *Client) GetPhoneNumber(ctx context.Context, phoneID string) (*types.PhoneNumber, error) {
	var phone types.PhoneNumber
	if err := c.getJSON(ctx, "get_phone_number", "/phone-number/"+url.PathEscape(phoneID), nil, &phone); err != nil {
		return nil, err
	}
	return &phone, nil
}

// CreateAssistant creates an assistant answering from the given knowledge-base files.
func (c *Client) CreateAssistant(ctx context.Context, spec types.AssistantSpec) (*types.Assistant, error) {
	payload, err := json.Marshal(newAssistantPayload(spec))
	if err != nil {
		return nil, fmt.Errorf("failed to encode assistant: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "create_assistant", "/assistant", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	var assistant types.Assistant
	if err := json.Unmarshal(data, &assistant); err != nil {
		return nil, fmt.Errorf("failed to decode created assistant: %w", err)
	}
	if assistant.ID == "" {
		return nil, fmt.Errorf("created assistant response has no id")
	}
	return &assistant, nil
}

// DeleteAssistant deletes an assistant.
func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) error {
	_, err := c.do(ctx, http.MethodDelete, "delete_assistant", "/assistant/"+url.PathEscape(assistantID), nil, nil, "")
	return err
}

// UploadFile uploads a knowledge-base document and returns its file id.
func (c *Client) UploadFile(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create upload part: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to buffer upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload body: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "upload_file", "/file", nil, &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}

	var uploaded struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &uploaded); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if uploaded.ID == "" {
		return "", fmt.Errorf("upload response has no id")
	}
	return uploaded.ID, nil
}

// StartTestCall has the assistant dial customerNumber from phoneNumberID.
// The platform's call object is returned as is.
func (c *Client) StartTestCall(ctx context.Context, assistantID, customerNumber, phoneNumberID string) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"assistantId":   assistantID,
		"phoneNumberId": phoneNumberID,
		"customer": map[string]string{
			"number": customerNumber,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode test call: %w", err)
	}

	data, err := c.do(ctx, http.MethodPost, "create_call", "/call", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
