package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	// DefaultTimeout bounds a fetch when the caller's client has none.
	DefaultTimeout = 30 * time.Second

	maxCSVSize = 16 << 20
	userAgent  = "Mozilla/5.0 (compatible; localesync)"
)

// FetchOption configures Fetch.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	client *http.Client
}

// WithHTTPClient sets the client used by Fetch.
func WithHTTPClient(c *http.Client) FetchOption {
	return func(o *fetchOptions) {
		if c != nil {
			o.client = c
		}
	}
}

// Fetch downloads the CSV at url and parses it into rows.
func Fetch(ctx context.Context, url string, opts ...FetchOption) ([][]string, error) {
	o := fetchOptions{client: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(&o)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http status %d (is the sheet shared?)", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCSVSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return ReadRows(strings.NewReader(text))
}

// decodeText returns data as UTF-8, falling back to UTF-16 for exports that
// are not valid UTF-8.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding utf-16: %w", err)
	}
	return string(out), nil
}

// ReadRows parses CSV rows, dropping trailing empty cells from each row.
func ReadRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheet: parsing csv: %w", err)
	}
	for i, row := range rows {
		rows[i] = trimTrailingEmpty(row)
	}
	return rows, nil
}

func trimTrailingEmpty(row []string) []string {
	i := len(row)
	for i > 0 && strings.TrimSpace(row[i-1]) == "" {
		i--
	}
	return row[:i]
}
