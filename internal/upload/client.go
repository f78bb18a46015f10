// Package upload forwards spreadsheet files to the import backend.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/godilite/survey-dashboard/internal/survey"
	"go.uber.org/zap"
)

var (
	ErrMissingPageName = errors.New("page name is required")
	ErrEmptyFile       = errors.New("file is empty")
	// ErrRejected marks a non-2xx answer of the import backend. The wrapped
	// message is the response body verbatim.
	ErrRejected = errors.New("upload rejected")
)

const defaultTimeout = 2 * time.Minute

// File is one spreadsheet to import.
type File struct {
	Name string
	Body io.Reader
}

// Result is the decoded success body of the import backend. Unknown shapes
// are kept as-is.
type Result map[string]any

// Invalidator drops cached datasets of a survey type.
type Invalidator interface {
	Invalidate(t survey.Type)
}

type Client struct {
	url         string
	httpClient  *http.Client
	invalidator Invalidator
	logger      *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithInvalidator is notified after every upload that imported at least one
// file, including a batch that failed part way.
func WithInvalidator(inv Invalidator) Option {
	return func(cl *Client) {
		cl.invalidator = inv
	}
}

func NewClient(url string, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.Named("upload"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizePageName lower-cases and trims the destination page name.
func NormalizePageName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Upload sends one file. Files of a batch are sent one request each, in
// order, and the first failure stops the batch.
func (c *Client) Upload(ctx context.Context, pageName string, t survey.Type, files ...File) ([]Result, error) {
	page := NormalizePageName(pageName)
	if page == "" {
		return nil, ErrMissingPageName
	}
	if _, err := survey.ParseType(string(t)); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	// Files imported before a failure are already on the backend.
	defer func() {
		if c.invalidator != nil && len(results) > 0 {
			c.invalidator.Invalidate(t)
		}
	}()

	for _, f := range files {
		res, err := c.send(ctx, page, t, f)
		if err != nil {
			c.logger.Warn("upload failed", zap.String("file", f.Name), zap.String("page", page), zap.Error(err))
			return results, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		c.logger.Info("file imported", zap.String("file", f.Name), zap.String("page", page), zap.String("survey_type", string(t)))
		results = append(results, res)
	}
	return results, nil
}

func (c *Client) send(ctx context.Context, page string, t survey.Type, f File) (Result, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", f.Name)
	if err != nil {
		return nil, err
	}
	n, err := io.Copy(part, f.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if n == 0 {
		return nil, ErrEmptyFile
	}
	if err := w.WriteField("pageName", page); err != nil {
		return nil, err
	}
	if err := w.WriteField("type", string(t)); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(data)
		if msg == "" {
			msg = "Upload failed"
		}
		return nil, fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	res := Result{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return res, nil
}
