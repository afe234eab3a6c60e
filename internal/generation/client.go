// Package generation provides an HTTP client for the trailer generation service.
package generation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/maauso/trailerforge/internal/trailer"
)

// GeneratePath is the generation endpoint, relative to the service base URL.
const GeneratePath = "/processing/generate-trailer"

// formField is the multipart field that carries the artifact.
const formField = "file"

// maxErrorBodyBytes caps how much of a non-2xx response body ends up in the error.
const maxErrorBodyBytes = 512

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Static errors for generation client operations.
var (
	// ErrBaseURLRequired is returned when the service base URL is not provided.
	ErrBaseURLRequired = errors.New("generation: base URL is required")
	// ErrEmptyArtifact is returned when the artifact has no content.
	ErrEmptyArtifact = errors.New("generation: artifact content is empty")
	// ErrRequestFailed is returned when the service cannot be reached.
	ErrRequestFailed = errors.New("generation: request failed")
	// ErrUnexpectedStatus is returned when the service answers with a non-2xx status code.
	ErrUnexpectedStatus = errors.New("generation: unexpected status")
)

// Upload is the file sent to the generation service.
type Upload struct {
	// Name is the filename reported in the multipart part.
	Name string
	// MediaType is the declared content type of the file.
	MediaType string
	// Content is the raw file bytes.
	Content []byte
}

// Client defines the interface for requesting trailer generation.
type Client interface {
	// Generate uploads the file and returns the parsed trailer result.
	Generate(ctx context.Context, upload Upload) (trailer.Result, error)
}

// HTTPClient is the HTTP implementation of the Client interface.
// It issues exactly one request per call: no retries, and no timeout
// unless one is configured through WithHTTPClient.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// NewClient creates a new generation HTTP client for the service at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the full URL of the generation endpoint.
func (c *HTTPClient) Endpoint() string {
	return c.baseURL + GeneratePath
}

// Generate posts the upload as multipart form data and parses the response.
// Transport failures wrap ErrRequestFailed, non-2xx answers wrap
// ErrUnexpectedStatus and unusable bodies wrap trailer.ErrMalformedResponse.
func (c *HTTPClient) Generate(ctx context.Context, upload Upload) (trailer.Result, error) {
	if len(upload.Content) == 0 {
		return trailer.Result{}, ErrEmptyArtifact
	}

	body, contentType, err := encodeUpload(upload)
	if err != nil {
		return trailer.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return trailer.Result{}, fmt.Errorf("generation: create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return trailer.Result{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return trailer.Result{}, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(snippet))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return trailer.Result{}, fmt.Errorf("%w: read response: %w", ErrRequestFailed, err)
	}

	return trailer.ParseResponse(respBody)
}

// encodeUpload builds the multipart body with a single "file" part.
func encodeUpload(upload Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	mediaType := upload.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, formField, quoteEscaper.Replace(upload.Name)))
	header.Set("Content-Type", mediaType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("generation: create form part: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, "", fmt.Errorf("generation: write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("generation: close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
