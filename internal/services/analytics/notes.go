package analytics

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/blevesearch/bleve/v2"
)

//go:embed notes/*.md
var notesFS embed.FS

// Note is one learning article.
type Note struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notes holds the learning articles in file-name order plus an in-memory
// full-text index used to pick prompt context for remote providers.
type Notes struct {
	notes []Note
	index bleve.Index
}

// LoadNotes reads the embedded articles and indexes them.
func LoadNotes() (*Notes, error) {
	entries, err := fs.ReadDir(notesFS, "notes")
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	var notes []Note
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		b, err := notesFS.ReadFile("notes/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read note %s: %w", entry.Name(), err)
		}
		notes = append(notes, Note{ID: strings.TrimSuffix(entry.Name(), ".md"), Title: titleOf(string(b)), Body: string(b)})
	}
	return NewNotes(notes)
}

// NewNotes indexes the given articles.
func NewNotes(notes []Note) (*Notes, error) {
	mapping := bleve.NewIndexMapping()
	noteMapping := bleve.NewDocumentMapping()
	text := bleve.NewTextFieldMapping()
	text.Store = false
	noteMapping.AddFieldMappingsAt("title", text)
	noteMapping.AddFieldMappingsAt("body", text)
	mapping.AddDocumentMapping("_default", noteMapping)

	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("create notes index: %w", err)
	}
	batch := index.NewBatch()
	for _, n := range notes {
		if err := batch.Index(n.ID, n); err != nil {
			return nil, fmt.Errorf("index note %s: %w", n.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("index notes: %w", err)
	}
	return &Notes{notes: notes, index: index}, nil
}

func titleOf(body string) string {
	line, _, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(strings.TrimLeft(line, "# "))
}

func (n *Notes) All() []Note { return n.notes }

// Bodies returns the article texts in order.
func (n *Notes) Bodies() []string {
	out := make([]string, len(n.notes))
	for i, note := range n.notes {
		out[i] = note.Body
	}
	return out
}

// Relevant returns up to limit articles matching question, best first. It
// returns every article when the index finds nothing.
func (n *Notes) Relevant(question string, limit int) []string {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(question))
	req.Size = limit
	res, err := n.index.Search(req)
	if err != nil || len(res.Hits) == 0 {
		return n.Bodies()
	}

	byID := make(map[string]string, len(n.notes))
	for _, note := range n.notes {
		byID[note.ID] = note.Body
	}
	out := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if body, ok := byID[hit.ID]; ok {
			out = append(out, body)
		}
	}
	return out
}

func (n *Notes) Close() error {
	return n.index.Close()
}
