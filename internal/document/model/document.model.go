package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// KeyPrefix namespaces document entries inside a shared key/value store.
const KeyPrefix = "mindmaps.document."

var errMissingID = errors.New("document has no id")

// Dates tracks when a document was created and last modified.
type Dates struct {
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified,omitzero"`
}

// Document is a mind map as persisted by the editor. Mindmap holds the node
// tree untouched; the store only ever reads or writes its serialized form.
type Document struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Mindmap json.RawMessage `json:"mindmap,omitempty"`
	Dates   Dates           `json:"dates"`
}

// Key returns the namespaced store key for a document id.
func Key(id string) string {
	return KeyPrefix + id
}

// Serialize renders the document in its stored JSON form.
func (d *Document) Serialize() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("serialize document %s: %w", d.ID, err)
	}
	return string(b), nil
}

// FromJSON parses a serialized document. A payload that does not parse or has
// no id is rejected.
func FromJSON(data string) (*Document, error) {
	var d Document
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, err
	}
	if d.ID == "" {
		return nil, errMissingID
	}
	return &d, nil
}

// DecodeError reports a stored value that could not be turned back into a Document.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MindmapRecord is the transfer record exchanged with the /api/Mindmaps collection.
type MindmapRecord struct {
	ID      string          `json:"id"`
	Content json.RawMessage `json:"content"`
	Name    string          `json:"name"`
	UserID  string          `json:"userId"`
}

// NewMindmapRecord wraps doc for upload on behalf of userID.
func NewMindmapRecord(doc *Document, userID string) (*MindmapRecord, error) {
	if doc == nil || doc.ID == "" {
		return nil, errMissingID
	}
	content, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode content for %s: %w", doc.ID, err)
	}
	return &MindmapRecord{
		ID:      doc.ID,
		Content: content,
		Name:    doc.Title,
		UserID:  userID,
	}, nil
}

// IDListResponse lists stored document ids.
type IDListResponse struct {
	IDs []string `json:"ids"`
}

// DeleteAllResponse reports how many documents a bulk delete removed.
type DeleteAllResponse struct {
	Deleted int `json:"deleted"`
}

// SyncResponse reports the outcome of pushing local documents to the remote collection.
type SyncResponse struct {
	Pushed int    `json:"pushed"`
	Error  string `json:"error,omitempty"`
}

// LastDocumentResponse carries the id of the last document opened in the session.
type LastDocumentResponse struct {
	DocID string `json:"document_id"`
}
