package repository

import (
	"errors"
	"fmt"
	"strings"

	"mindmaps/internal/document/model"
	"mindmaps/internal/storage"
	"mindmaps/pkg/logger"
)

// Entry is one namespaced value found by Scan: either a decoded document or
// the reason it could not be decoded.
type Entry struct {
	ID       string
	Document *model.Document
	Err      error
}

// DocumentRepository stores documents in a key/value store under model.KeyPrefix.
type DocumentRepository struct {
	Store storage.Store
}

func NewDocumentRepository(store storage.Store) *DocumentRepository {
	return &DocumentRepository{Store: store}
}

func (r *DocumentRepository) Save(doc *model.Document) error {
	if doc == nil || doc.ID == "" {
		return errors.New("document id is required")
	}
	value, err := doc.Serialize()
	if err != nil {
		return err
	}
	if err := r.Store.Put(model.Key(doc.ID), value); err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

// Load returns (nil, nil) when no entry exists and a *model.DecodeError when
// the stored value is corrupt.
func (r *DocumentRepository) Load(id string) (*model.Document, error) {
	return r.loadKey(model.Key(id))
}

func (r *DocumentRepository) loadKey(key string) (*model.Document, error) {
	value, ok, err := r.Store.Get(key)
	if err != nil {
		logger.Sugar.Errorf("Failed to read %s: %v", key, err)
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	doc, err := model.FromJSON(value)
	if err != nil {
		return nil, &model.DecodeError{Key: key, Err: err}
	}
	return doc, nil
}

func (r *DocumentRepository) documentKeys() ([]string, error) {
	keys, err := r.Store.Keys()
	if err != nil {
		logger.Sugar.Errorf("Failed to list keys: %v", err)
		return nil, err
	}
	matched := keys[:0]
	for _, k := range keys {
		if strings.HasPrefix(k, model.KeyPrefix) {
			matched = append(matched, k)
		}
	}
	return matched, nil
}

// Scan loads every namespaced entry in store order. Decode failures are
// reported per entry; only a failure of the store itself aborts the scan.
func (r *DocumentRepository) Scan() ([]Entry, error) {
	keys, err := r.documentKeys()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		doc, err := r.loadKey(k)
		var de *model.DecodeError
		if err != nil && !errors.As(err, &de) {
			return nil, err
		}
		if doc == nil && err == nil {
			// Removed between Keys and Get.
			continue
		}
		entries = append(entries, Entry{ID: strings.TrimPrefix(k, model.KeyPrefix), Document: doc, Err: err})
	}
	return entries, nil
}

// IDs lists the ids of every namespaced entry without decoding any of them.
func (r *DocumentRepository) IDs() ([]string, error) {
	keys, err := r.documentKeys()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, model.KeyPrefix))
	}
	return ids, nil
}

func (r *DocumentRepository) Delete(id string) error {
	if err := r.Store.Remove(model.Key(id)); err != nil {
		logger.Sugar.Errorf("Failed to delete doc %s: %v", id, err)
		return err
	}
	return nil
}

// Purge removes every namespaced entry, decodable or not, and reports how many
// were removed. Entries outside the namespace are left alone.
func (r *DocumentRepository) Purge() (int, error) {
	keys, err := r.documentKeys()
	if err != nil {
		return 0, err
	}
	for i, k := range keys {
		if err := r.Store.Remove(k); err != nil {
			logger.Sugar.Errorf("Failed to purge %s: %v", k, err)
			return i, err
		}
	}
	return len(keys), nil
}
