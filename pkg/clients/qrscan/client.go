package qrscan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoCode indicates the image contains no readable QR code.
var ErrNoCode = errors.New("no readable qr code in image")

// Scanner decodes a QR code from a publicly reachable image URL into text.
type Scanner interface {
	Decode(ctx context.Context, imageURL string) (string, error)
}

// APIClient is a resty-backed Scanner speaking the qrserver read-qr-code
// API (https://api.qrserver.com/v1/read-qr-code/).
type APIClient struct {
	httpClient *resty.Client
	endpoint   string
}

// NewClient builds a QR decode client against the given endpoint URL.
func NewClient(endpoint string) *APIClient {
	restyClient := resty.New()
	restyClient.SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		endpoint:   strings.TrimSuffix(endpoint, "/"),
	}
}

// decodeResult mirrors the qrserver response payload.
type decodeResult struct {
	Type   string `json:"type"`
	Symbol []struct {
		Seq   int     `json:"seq"`
		Data  *string `json:"data"`
		Error *string `json:"error"`
	} `json:"symbol"`
}

// Decode fetches the decode API for the image URL and returns the first
// decoded payload, trimmed.
func (c *APIClient) Decode(ctx context.Context, imageURL string) (string, error) {
	var results []decodeResult

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("fileurl", imageURL).
		SetResult(&results).
		Get(c.endpoint + "/")
	if err != nil {
		return "", fmt.Errorf("qr decode request: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("qr decode api error: status=%d", resp.StatusCode())
	}

	for _, result := range results {
		for _, symbol := range result.Symbol {
			if symbol.Data == nil {
				continue
			}
			if text := strings.TrimSpace(*symbol.Data); text != "" {
				return text, nil
			}
		}
	}

	return "", ErrNoCode
}
