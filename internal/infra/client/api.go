// Package client implements the UniBus API client: the authenticated GET
// endpoints the screens load from and the multipart profile image upload.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"

	"github.com/rafisgodoy/unibus-core-go/internal/domain"
	"github.com/rafisgodoy/unibus-core-go/internal/infra/resilience"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("client")

const serviceName = "unibus-api"

// Upload payload constants. The backend expects the mobile app's exact
// multipart shape: one part named "image" with a fixed JPEG filename.
const (
	uploadFieldName = "image"
	uploadFileName  = "profile_image.jpg"
	uploadMIMEType  = "image/jpeg"
)

// Client wraps HTTP calls to the UniBus API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	bulkhead   *resilience.Bulkhead
	logger     *zap.Logger
}

// NewClient creates a UniBus API client. The bulkhead bounds how many
// requests may be in flight at once.
func NewClient(httpClient *http.Client, baseURL string, bulkhead *resilience.Bulkhead, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		bulkhead:   bulkhead,
		logger:     logger,
	}
}

// GetClient fetches the authenticated user's profile from GET /client.
func (c *Client) GetClient(ctx context.Context, token string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Client.GetClient")
	defer span.End()

	body, err := c.doGet(ctx, "/client", token)
	if err != nil {
		return nil, err
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("decode profile: %w", err)}
	}
	return &profile, nil
}

// GetContract fetches the user's active contract company from GET /contrato.
// A structurally empty answer (empty body, null, empty array or an all-blank
// object) means "no active contract" and returns (nil, nil).
func (c *Client) GetContract(ctx context.Context, token string) (*domain.ContractCompany, error) {
	ctx, span := tracer.Start(ctx, "Client.GetContract")
	defer span.End()

	body, err := c.doGet(ctx, "/contrato", token)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("[]")) || bytes.Equal(trimmed, []byte("{}")) {
		return nil, nil
	}

	var company domain.ContractCompany
	if err := json.Unmarshal(trimmed, &company); err != nil {
		return nil, &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("decode contract: %w", err)}
	}
	if company.IsZero() {
		return nil, nil
	}
	return &company, nil
}

// UploadProfileImage submits the image at fileURI as multipart form data to
// POST /client/upload/image and returns the remote URL of the stored copy.
func (c *Client) UploadProfileImage(ctx context.Context, token, fileURI string) (string, error) {
	ctx, span := tracer.Start(ctx, "Client.UploadProfileImage")
	defer span.End()
	span.SetAttributes(attribute.String("upload.uri", fileURI))

	file, err := os.Open(fileURI)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, uploadFileName))
	header.Set("Content-Type", uploadMIMEType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish form: %w", err)
	}

	url := c.baseURL + "/client/upload/image"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &payload)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return "", &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	defer c.bulkhead.Release()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api: upload request failed", zap.Error(err))
		return "", &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Warn("api: upload non-success",
			zap.Int("status", resp.StatusCode),
		)
		return "", &domain.ErrUpstreamStatus{Service: serviceName, Status: resp.StatusCode}
	}

	var result struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &domain.ErrExternalService{Service: serviceName, Err: fmt.Errorf("decode upload response: %w", err)}
	}

	c.logger.Debug("api: upload OK", zap.String("path", result.Path))
	return result.Path, nil
}

// doGet executes an authenticated GET against the API.
func (c *Client) doGet(ctx context.Context, path, token string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	defer c.bulkhead.Release()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api: GET request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ErrExternalService{Service: serviceName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("api: GET non-200",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, &domain.ErrUpstreamStatus{Service: serviceName, Status: resp.StatusCode}
	}

	c.logger.Debug("api: GET OK", zap.String("path", path))
	return body, nil
}
