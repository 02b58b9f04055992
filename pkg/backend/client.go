package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docchat-client/internal/dto"
	"docchat-client/internal/pkg/logger"
	"docchat-client/pkg/retry"
)

type Client struct {
	BaseURL string
	Client  *http.Client
	Retry   retry.Config
	logger  logger.ILogger
}

// Ensure Client implements API
var _ API = &Client{}

func NewClient(baseURL string, timeout time.Duration, retryCfg retry.Config, log logger.ILogger) *Client {
	if retryCfg.Retryable == nil {
		retryCfg.Retryable = IsRetryable
	}
	if retryCfg.Logger == nil {
		retryCfg.Logger = log
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Retry:   retryCfg,
		logger:  log,
	}
}

// --- Documents ---

func (c *Client) UploadDocument(ctx context.Context, filename string, content io.Reader) (*dto.DocumentResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/documents/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var doc dto.DocumentResponse
	if err := c.do(req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]dto.DocumentResponse, error) {
	return retry.DoWithResult(ctx, c.Retry, func() ([]dto.DocumentResponse, error) {
		var docs []dto.DocumentResponse
		err := c.doJSON(ctx, http.MethodGet, "/documents/", nil, &docs)
		return docs, err
	})
}

func (c *Client) GetDocument(ctx context.Context, documentId string) (*dto.DocumentResponse, error) {
	return retry.DoWithResult(ctx, c.Retry, func() (*dto.DocumentResponse, error) {
		var doc dto.DocumentResponse
		if err := c.doJSON(ctx, http.MethodGet, "/documents/"+url.PathEscape(documentId), nil, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	})
}

func (c *Client) DeleteDocument(ctx context.Context, documentId string) error {
	return c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(documentId), nil, nil)
}

func (c *Client) ProcessDocument(ctx context.Context, documentId string) (*dto.DocumentResponse, error) {
	var doc dto.DocumentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/documents/"+url.PathEscape(documentId)+"/process", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// --- Sessions ---

func (c *Client) CreateSession(ctx context.Context, in dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	var s dto.SessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/sessions", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]dto.SessionResponse, error) {
	return retry.DoWithResult(ctx, c.Retry, func() ([]dto.SessionResponse, error) {
		var sessions []dto.SessionResponse
		err := c.doJSON(ctx, http.MethodGet, "/chat/sessions", nil, &sessions)
		return sessions, err
	})
}

func (c *Client) GetSession(ctx context.Context, sessionId string) (*dto.SessionWithMessagesResponse, error) {
	return retry.DoWithResult(ctx, c.Retry, func() (*dto.SessionWithMessagesResponse, error) {
		var s dto.SessionWithMessagesResponse
		if err := c.doJSON(ctx, http.MethodGet, "/chat/sessions/"+url.PathEscape(sessionId), nil, &s); err != nil {
			return nil, err
		}
		return &s, nil
	})
}

func (c *Client) DeleteSession(ctx context.Context, sessionId string) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat/sessions/"+url.PathEscape(sessionId), nil, nil)
}

func (c *Client) AttachDocument(ctx context.Context, sessionId, documentId string) (*dto.SessionResponse, error) {
	path := fmt.Sprintf("/chat/sessions/%s/documents/%s", url.PathEscape(sessionId), url.PathEscape(documentId))
	var s dto.SessionResponse
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// --- Chat ---

// SendMessage is never retried: a lost response may still have produced a
// server-side turn.
func (c *Client) SendMessage(ctx context.Context, in dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	var out dto.SendMessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat/message", in, &out); err != nil {
		return nil, err
	}
	if out.SessionId == "" || out.Message.Id == "" {
		return nil, fmt.Errorf("send message: %w", ErrMalformedResponse)
	}
	return &out, nil
}

func (c *Client) GetChunk(ctx context.Context, chunkId string) (*dto.ChunkDetailResponse, error) {
	return retry.DoWithResult(ctx, c.Retry, func() (*dto.ChunkDetailResponse, error) {
		var chunk dto.ChunkDetailResponse
		if err := c.doJSON(ctx, http.MethodGet, "/chat/chunks/"+url.PathEscape(chunkId), nil, &chunk); err != nil {
			return nil, err
		}
		return &chunk, nil
	})
}

// --- Transport ---

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("Backend", "Request completed", map[string]interface{}{
		"method":      req.Method,
		"path":        req.URL.Path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, bodyBytes)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bodyBytes) == 0 {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
