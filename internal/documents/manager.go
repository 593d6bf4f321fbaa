package documents

import (
	"fmt"
	"sync"

	"bennypowers.dev/filterfallback/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager holds open documents by URI
type Manager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		documents: make(map[string]*Document),
	}
}

// Get returns the open document for uri, or nil
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[uri]
}

// GetAll returns every open document
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		docs = append(docs, doc)
	}
	return docs
}

// DidOpen starts tracking a document, replacing any previous one at uri
func (m *Manager) DidOpen(uri, languageID string, version int, content string) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := NewDocument(uri, languageID, version, content)
	m.documents[uri] = doc
	return doc
}

// DidClose stops tracking a document
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.documents[uri]; !exists {
		return fmt.Errorf("document not found: %s", uri)
	}
	delete(m.documents, uri)
	return nil
}

// DidChange applies full or incremental changes in order
func (m *Manager) DidChange(uri string, version int, changes []any) (*Document, error) {
	doc := m.Get(uri)
	if doc == nil {
		return nil, fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for _, change := range changes {
		var err error
		content, err = applyChange(content, change)
		if err != nil {
			return nil, fmt.Errorf("failed to apply changes: %w", err)
		}
	}

	if err := doc.SetContent(content, version); err != nil {
		return nil, err
	}
	return doc, nil
}

// applyChange accepts the two event shapes glsp decodes didChange into
func applyChange(content string, change any) (string, error) {
	switch c := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text, nil
	case protocol.TextDocumentContentChangeEvent:
		if c.Range == nil {
			return c.Text, nil
		}
		return splice(content, *c.Range, c.Text)
	}
	return "", fmt.Errorf("unsupported change event %T", change)
}

// splice replaces the UTF-16 range r of content with text
func splice(content string, r protocol.Range, text string) (string, error) {
	start, err := position.ToOffset(content, position.Position{Line: r.Start.Line, Character: r.Start.Character})
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}
	end, err := position.ToOffset(content, position.Position{Line: r.End.Line, Character: r.End.Character})
	if err != nil {
		return "", fmt.Errorf("end: %w", err)
	}
	if end < start {
		return "", fmt.Errorf("range end %d:%d precedes start %d:%d", r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}
	return content[:start] + text + content[end:], nil
}
