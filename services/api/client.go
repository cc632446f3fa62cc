// Package api calls the registration backend over HTTP. It implements the
// wizard's serial verification and registration submission calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bikereg/models"
	"bikereg/services/registration"
)

// RequestError is a failed call that carries a message fit for display.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

func (e *RequestError) DisplayMessage() string { return e.Message }

// Client talks to the backend rooted at BaseURL.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *models.BikeDetails `json:"data"`
}

// VerifySerialNumber fetches the bike behind serial.
func (c *Client) VerifySerialNumber(ctx context.Context, serial string) (*models.BikeDetails, error) {
	endpoint := c.baseURL + "/api/serial-numbers/" + url.PathEscape(serial)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: serial lookup: %w", err)
	}
	defer resp.Body.Close()

	var body envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && body.Message != "" {
			return nil, &RequestError{Status: resp.StatusCode, Message: body.Message}
		}
		return nil, fmt.Errorf("api: serial lookup: unexpected status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("api: serial lookup: %w", decodeErr)
	}
	if body.Data == nil {
		return nil, fmt.Errorf("api: serial lookup: response without data")
	}
	return body.Data, nil
}

// RegisterBike posts rec. Accepted and rejected registrations are both
// outcomes; anything else is an error.
func (c *Client) RegisterBike(ctx context.Context, rec models.RegistrationRecord) (*models.RegistrationOutcome, error) {
	b, err := json.Marshal(registration.NewPayload(rec))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/register", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: register: %w", err)
	}
	defer resp.Body.Close()

	var body models.RegistrationResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusConflict:
		if decodeErr != nil {
			return nil, fmt.Errorf("api: register: %w", decodeErr)
		}
		out := body.Outcome()
		return &out, nil
	case http.StatusBadRequest:
		msg := "Registration data is invalid"
		if decodeErr == nil && body.Message != "" {
			msg = body.Message
		}
		return nil, &RequestError{Status: resp.StatusCode, Message: msg}
	default:
		return nil, fmt.Errorf("api: register: unexpected status %d", resp.StatusCode)
	}
}
