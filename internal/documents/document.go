// Package documents tracks the text of files open in the language server.
package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/filterfallback/internal/fallback"
	"bennypowers.dev/filterfallback/internal/sources"
)

// Document is an open text document
type Document struct {
	uri        string
	languageID string
	content    string
	version    int

	mu       sync.Mutex
	analysis *Analysis
}

// Analysis is the rewrite of one document version under one set of options
type Analysis struct {
	Version int
	Options fallback.Options
	*sources.Result
}

// NewDocument creates a document
func NewDocument(uri, languageID string, version int, content string) *Document {
	return &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		content:    content,
	}
}

func (d *Document) URI() string {
	return d.uri
}

func (d *Document) LanguageID() string {
	return d.languageID
}

func (d *Document) Version() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *Document) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

// Language is the source format picked from the language ID, falling back
// to the URI's extension
func (d *Document) Language() sources.Language {
	if lang := sources.LanguageForID(d.languageID); lang != sources.Unsupported {
		return lang
	}
	return sources.LanguageForPath(d.uri)
}

// SetContent replaces the text. Updates older than the current version are
// rejected.
func (d *Document) SetContent(content string, version int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if version < d.version {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", d.version, version)
	}
	d.content = content
	d.version = version
	d.analysis = nil
	return nil
}

// Analyze rewrites the current text with opts. The result is cached until
// the text or the options change.
func (d *Document) Analyze(opts fallback.Options) (*Analysis, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if a := d.analysis; a != nil && a.Version == d.version && a.Options == opts {
		return a, nil
	}

	result, err := sources.Rewrite(d.Language(), d.content, opts)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", d.uri, err)
	}
	d.analysis = &Analysis{Version: d.version, Options: opts, Result: result}
	return d.analysis, nil
}
