// Package catalog loads the list of known scripts and where to fetch them.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ErrTitleNotFound is returned by Lookup for unknown titles.
var ErrTitleNotFound = errors.New("title not in catalog")

// Entry is one catalog row.
type Entry struct {
	Title   string `json:"title"`
	Locator string `json:"pdf_url"`
}

// Catalog is an ordered list of entries.
type Catalog struct {
	Entries []Entry `json:"entries"`
}

// Load reads a catalog CSV file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("Loaded %d catalog entries from %s", len(c.Entries), path)
	return c, nil
}

// Parse reads CSV with a header row containing TITLE and PDF_URL columns in
// any order and case. Rows missing either value are skipped.
func Parse(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	titleCol, urlCol := -1, -1
	for i, col := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))) {
		case "TITLE":
			titleCol = i
		case "PDF_URL":
			urlCol = i
		}
	}
	if titleCol < 0 || urlCol < 0 {
		return nil, fmt.Errorf("catalog header must contain TITLE and PDF_URL, got %v", header)
	}

	c := &Catalog{}
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog row: %w", err)
		}
		if titleCol >= len(record) || urlCol >= len(record) {
			skipped++
			continue
		}
		title := strings.TrimSpace(record[titleCol])
		locator := strings.TrimSpace(record[urlCol])
		if title == "" || locator == "" {
			skipped++
			continue
		}
		c.Entries = append(c.Entries, Entry{Title: title, Locator: locator})
	}
	if skipped > 0 {
		log.Warnf("Skipped %d incomplete catalog rows", skipped)
	}
	return c, nil
}

// Titles returns the entry titles in catalog order.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		titles[i] = e.Title
	}
	return titles
}

// Lookup finds the first entry whose title matches, ignoring case.
func (c *Catalog) Lookup(title string) (Entry, error) {
	title = strings.TrimSpace(title)
	for _, e := range c.Entries {
		if strings.EqualFold(e.Title, title) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrTitleNotFound, title)
}

// Locators returns every entry locator in catalog order.
func (c *Catalog) Locators() []string {
	locators := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		locators[i] = e.Locator
	}
	return locators
}
