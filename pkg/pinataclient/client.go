package pinataclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yourname/pin_relay/internal/models"
	"github.com/yourname/pin_relay/pkg/pinataproto"
)

// maxErrorBody ограничивает объём тела ошибки, который попадает в ответ клиенту.
const maxErrorBody = 4 << 10

type Client interface {
	// PinFile отправить multipart-форму в pinFileToIPFS
	PinFile(ctx context.Context, body io.Reader, contentType string) (pinataproto.PinResponse, error)
	// Unpin снять пин по CID
	Unpin(ctx context.Context, cid string) error
	// TestAuthentication проверить ключи и доступность сервиса
	TestAuthentication(ctx context.Context) error
}

type Credentials struct {
	APIKey    string
	APISecret string
}

type httpClient struct {
	c       *http.Client
	baseURL string
	creds   Credentials
}

// New создаёт HTTP-клиент Pinata. Пустой baseURL означает боевой API.
func New(baseURL string, creds Credentials) Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = pinataproto.DefaultBaseURL
	}
	return &httpClient{
		c:       &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
	}
}

// PinFile стримит тело запроса в Pinata и возвращает разобранный ответ.
func (h *httpClient) PinFile(ctx context.Context, body io.Reader, contentType string) (pinataproto.PinResponse, error) {
	logger := zerolog.Ctx(ctx)
	progress := newProgressReader(body, logger)

	req, err := h.newRequest(ctx, http.MethodPost, pinataproto.PinFilePath, progress)
	if err != nil {
		return pinataproto.PinResponse{}, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.c.Do(req)
	if err != nil {
		progress.Fail(err)
		return pinataproto.PinResponse{}, fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp); err != nil {
		progress.Fail(err)
		return pinataproto.PinResponse{}, err
	}
	progress.Finish()

	var out pinataproto.PinResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pinataproto.PinResponse{}, fmt.Errorf("%w: decode pin response: %v", models.ErrUpstreamUnavailable, err)
	}
	if out.IpfsHash == "" {
		return pinataproto.PinResponse{}, fmt.Errorf("%w: pin response without IpfsHash", models.ErrUpstreamUnavailable)
	}

	return out, nil
}

// Unpin отправляет DELETE на /pinning/unpin/{cid}.
func (h *httpClient) Unpin(ctx context.Context, cid string) error {
	p := fmt.Sprintf(pinataproto.UnpinPathFormat, url.PathEscape(cid))
	req, err := h.newRequest(ctx, http.MethodDelete, p, nil)
	if err != nil {
		return err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// TestAuthentication дёргает /data/testAuthentication.
func (h *httpClient) TestAuthentication(ctx context.Context) error {
	req, err := h.newRequest(ctx, http.MethodGet, pinataproto.TestAuthPath, nil)
	if err != nil {
		return err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if err = checkStatus(resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (h *httpClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(pinataproto.HeaderAPIKey, h.creds.APIKey)
	req.Header.Set(pinataproto.HeaderAPISecret, h.creds.APISecret)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// checkStatus превращает ответ вне 2xx в *models.UpstreamError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil && !errors.Is(err, io.EOF) {
		b = nil
	}

	return &models.UpstreamError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(b)),
	}
}
