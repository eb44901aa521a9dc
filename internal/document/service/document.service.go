package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mindmaps/internal/document/model"
	"mindmaps/internal/document/repository"
	"mindmaps/internal/storage"
	"mindmaps/pkg/logger"
)

// lastDocumentKey is the session-store entry holding the id of the most
// recently opened document.
const lastDocumentKey = "mindmaps.session.lastDocument"

var (
	ErrNoUser     = errors.New("no current user")
	ErrNoDocument = errors.New("no document given")
)

type DocumentService struct {
	Repo    *repository.DocumentRepository
	Remote  *repository.RemoteRepository
	Session storage.Store
}

func NewDocumentService(repo *repository.DocumentRepository, remote *repository.RemoteRepository, session storage.Store) *DocumentService {
	return &DocumentService{Repo: repo, Remote: remote, Session: session}
}

// SaveDocument stores doc, overwriting any document with the same id. It
// reports false when the store refuses the write (e.g. quota exceeded).
func (s *DocumentService) SaveDocument(doc *model.Document) bool {
	if err := s.Repo.Save(doc); err != nil {
		logger.Sugar.Errorf("Error while saving document to local storage: %v", err)
		return false
	}
	return true
}

// LoadDocument returns nil both when the document is absent and when its
// stored form cannot be decoded. The latter is logged.
func (s *DocumentService) LoadDocument(id string) *model.Document {
	doc, err := s.Repo.Load(id)
	if err != nil {
		logger.Sugar.Errorf("Error while loading document from local storage: %v", err)
		return nil
	}
	if doc != nil && s.Session != nil {
		if err := s.Session.Put(lastDocumentKey, doc.ID); err != nil {
			logger.Sugar.Warnf("Failed to remember last document %s: %v", doc.ID, err)
		}
	}
	return doc
}

// LastOpenedDocumentID returns the id most recently returned by LoadDocument
// in this session, or "" if none.
func (s *DocumentService) LastOpenedDocumentID() string {
	if s.Session == nil {
		return ""
	}
	id, ok, err := s.Session.Get(lastDocumentKey)
	if err != nil || !ok {
		return ""
	}
	return id
}

// GetDocuments returns every decodable document in store order; corrupt
// entries are logged and skipped.
func (s *DocumentService) GetDocuments() []*model.Document {
	entries, err := s.Repo.Scan()
	if err != nil {
		logger.Sugar.Errorf("Error while scanning local storage: %v", err)
		return []*model.Document{}
	}
	docs := make([]*model.Document, 0, len(entries))
	for _, e := range entries {
		if e.Err != nil {
			logger.Sugar.Errorf("Error while loading document from local storage: %v", e.Err)
			continue
		}
		docs = append(docs, e.Document)
	}
	return docs
}

// GetDocumentIDs lists the ids of all stored documents, corrupt ones included.
func (s *DocumentService) GetDocumentIDs() []string {
	ids, err := s.Repo.IDs()
	if err != nil {
		logger.Sugar.Errorf("Error while listing document ids: %v", err)
		return []string{}
	}
	return ids
}

func (s *DocumentService) DeleteDocument(doc *model.Document) {
	if doc == nil {
		return
	}
	if err := s.Repo.Delete(doc.ID); err != nil {
		logger.Sugar.Errorf("Error while deleting document %s: %v", doc.ID, err)
	}
}

// DeleteAllDocuments deletes every document GetDocuments can load. Entries
// that fail to decode are left in place; PurgeAllDocuments removes those too.
// It reports how many were actually removed.
func (s *DocumentService) DeleteAllDocuments() int {
	deleted := 0
	for _, doc := range s.GetDocuments() {
		if err := s.Repo.Delete(doc.ID); err != nil {
			logger.Sugar.Errorf("Error while deleting document %s: %v", doc.ID, err)
			continue
		}
		deleted++
	}
	return deleted
}

// PurgeAllDocuments deletes every namespaced entry regardless of whether it
// decodes.
func (s *DocumentService) PurgeAllDocuments() int {
	n, err := s.Repo.Purge()
	if err != nil {
		logger.Sugar.Errorf("Error while purging documents after %d deletions: %v", n, err)
	}
	return n
}

// SaveDocumentToDatabase uploads doc to the remote collection on behalf of
// userID and returns the response body.
func (s *DocumentService) SaveDocumentToDatabase(ctx context.Context, userID string, doc *model.Document) (json.RawMessage, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if doc == nil {
		return nil, ErrNoDocument
	}
	rec, err := model.NewMindmapRecord(doc, userID)
	if err != nil {
		return nil, err
	}
	resp, err := s.Remote.Put(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("save %s to database: %w", doc.ID, err)
	}
	logger.Sugar.Infof("Uploaded document %s for user %s", doc.ID, userID)
	return resp, nil
}

// GetDocumentsFromDatabase fetches the remote documents of userID. Records
// whose content does not decode are logged and skipped.
func (s *DocumentService) GetDocumentsFromDatabase(ctx context.Context, userID string) ([]*model.Document, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	records, err := s.Remote.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get documents from database: %w", err)
	}
	docs := make([]*model.Document, 0, len(records))
	for _, rec := range records {
		doc, err := model.FromJSON(string(rec.Content))
		if err != nil {
			logger.Sugar.Errorf("Skipping remote mindmap %s: %v", rec.ID, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// SyncToDatabase uploads every local document for userID. It keeps going
// after a failed upload and returns how many succeeded along with the joined
// errors.
func (s *DocumentService) SyncToDatabase(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrNoUser
	}
	var (
		pushed int
		errs   []error
	)
	for _, doc := range s.GetDocuments() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := s.SaveDocumentToDatabase(ctx, userID, doc); err != nil {
			errs = append(errs, err)
			continue
		}
		pushed++
	}
	return pushed, errors.Join(errs...)
}
