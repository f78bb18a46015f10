package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/godilite/survey-dashboard/internal/survey"
)

// ErrInvalidPart is returned for part names that are not plain identifiers.
var ErrInvalidPart = errors.New("invalid dataset part name")

// Source fetches the raw records of one dataset part.
type Source interface {
	FetchPart(ctx context.Context, part string) ([]survey.RawRecord, error)
}

// DirSource reads exported JSON caches from a directory, one <part>.json per
// part.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) FetchPart(ctx context.Context, part string) ([]survey.RawRecord, error) {
	if !ValidPart(part) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPart, part)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.dir, part+".json"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeRecords(f)
}

// HTTPSource fetches <baseURL>/<part>.json.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates an HTTP source. A nil client gets a 30s timeout
// client.
func NewHTTPSource(baseURL string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HTTPSource) FetchPart(ctx context.Context, part string) ([]survey.RawRecord, error) {
	if !ValidPart(part) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPart, part)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+part+".json", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s: unexpected status %s", part, resp.Status)
	}
	return decodeRecords(resp.Body)
}

func decodeRecords(r io.Reader) ([]survey.RawRecord, error) {
	var records []survey.RawRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}
