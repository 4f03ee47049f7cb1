// Package document acquires script text from URLs or local files.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrEmptyLocator is returned when no URL or path was supplied.
	ErrEmptyLocator = errors.New("document locator is empty")
	// ErrNoText is returned when a document yields no text.
	ErrNoText = errors.New("no text extracted from document")
	// ErrTooLarge is returned when a document exceeds the size limit.
	ErrTooLarge = errors.New("document exceeds size limit")
)

// Format names the detected document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// Document is the extracted text of one script.
type Document struct {
	Locator string
	Format  Format
	Pages   int
	Text    string
}

// Lines splits the document text into lines.
func (d *Document) Lines() []string {
	return Lines(d.Text)
}

// ProgressFunc receives page extraction progress.
type ProgressFunc func(done, total int)

// Source fetches documents over HTTP(S) or from the filesystem.
type Source struct {
	http     *http.Client
	maxBytes int64
	progress ProgressFunc
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) { s.http = c }
}

// WithMaxBytes caps the accepted document size. Zero disables the cap.
func WithMaxBytes(n int64) Option {
	return func(s *Source) { s.maxBytes = n }
}

// WithProgress registers a page progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Source) { s.progress = fn }
}

// NewSource returns a Source whose HTTP requests time out after timeout.
func NewSource(timeout time.Duration, opts ...Option) *Source {
	s := &Source{http: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads or reads locator and extracts its text.
func (s *Source) Fetch(ctx context.Context, locator string) (*Document, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, ErrEmptyLocator
	}
	startTime := time.Now()

	var (
		data []byte
		err  error
	)
	if IsURL(locator) {
		data, err = s.download(ctx, locator)
	} else {
		data, err = s.readFile(locator)
	}
	if err != nil {
		return nil, err
	}
	log.Infof("Document acquired: %s (%d bytes)", locator, len(data))

	doc, err := s.Extract(locator, data)
	if err != nil {
		return nil, err
	}
	log.Infof("Text extracted from %s: format=%s pages=%d chars=%d in %v",
		locator, doc.Format, doc.Pages, len(doc.Text), time.Since(startTime))
	return doc, nil
}

// Extract turns raw document bytes into a Document. PDF content is detected
// by its header; anything else is decoded as text.
func (s *Source) Extract(locator string, data []byte) (*Document, error) {
	doc := &Document{Locator: locator}
	if bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		text, pages, err := ExtractPDF(data, s.progress)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", locator, err)
		}
		doc.Format, doc.Pages, doc.Text = FormatPDF, pages, text
	} else {
		doc.Format, doc.Pages, doc.Text = FormatText, 1, DecodeText(data)
		if s.progress != nil {
			s.progress(1, 1)
		}
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("%s: %w", locator, ErrNoText)
	}
	return doc, nil
}

// Read extracts a document from r, applying the size limit. It serves
// uploads that never touch the filesystem.
func (s *Source) Read(r io.Reader, locator string) (*Document, error) {
	data, err := s.readAll(r, locator)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", locator, ErrNoText)
	}
	return s.Extract(locator, data)
}

func (s *Source) download(ctx context.Context, locator string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("failed create download request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download %s: non-OK status %s. Body: %s", locator, resp.Status, string(body))
	}
	return s.readAll(resp.Body, locator)
}

func (s *Source) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return s.readAll(f, path)
}

func (s *Source) readAll(r io.Reader, locator string) ([]byte, error) {
	if s.maxBytes > 0 {
		r = io.LimitReader(r, s.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", locator, err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%s: %w (%d bytes)", locator, ErrTooLarge, s.maxBytes)
	}
	return data, nil
}

// IsURL reports whether locator is an absolute http or https URL.
func IsURL(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
