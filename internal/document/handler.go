package handler

import (
	"encoding/json"
	"net/http"

	"mindmaps/internal/document/model"
	"mindmaps/internal/document/service"
	"mindmaps/middleware"
	"mindmaps/pkg/logger"
)

// DocumentHandler serves each authenticated user from their own document
// namespace and session.
type DocumentHandler struct {
	Services *service.UserServices
}

func NewDocumentHandler(services *service.UserServices) *DocumentHandler {
	return &DocumentHandler{Services: services}
}

// userService resolves the caller's scoped service, answering 401 when the
// request carries no user.
func (h *DocumentHandler) userService(w http.ResponseWriter, r *http.Request) (*service.DocumentService, string, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "Unauthorized: no user in request", http.StatusUnauthorized)
		return nil, "", false
	}
	return h.Services.For(userID), userID, true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

func (h *DocumentHandler) GetDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, _, ok := h.userService(w, r)
	if !ok {
		return
	}
	writeJSON(w, svc.GetDocuments())
}

func (h *DocumentHandler) GetDocumentIDs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, _, ok := h.userService(w, r)
	if !ok {
		return
	}
	writeJSON(w, model.IDListResponse{IDs: svc.GetDocumentIDs()})
}

func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, _, ok := h.userService(w, r)
	if !ok {
		return
	}

	docID := r.URL.Query().Get("docId")
	if docID == "" {
		http.Error(w, "Missing docId parameter", http.StatusBadRequest)
		return
	}

	doc := svc.LoadDocument(docID)
	if doc == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, doc)
}

func (h *DocumentHandler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, _, ok := h.userService(w, r)
	if !ok {
		return
	}

	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if doc.ID == "" {
		http.Error(w, "Document id is required", http.StatusBadRequest)
		return
	}

	if !svc.SaveDocument(&doc) {
		http.Error(w, "Document could not be stored", http.StatusInsufficientStorage)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Document saved successfully"))
}

func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, _, ok := h.userService(w, r)
	if !ok {
		return
	}

	docID := r.URL.Query().Get("docId")
	if docID == "" {
		http.Error(w, "Missing docId parameter", http.StatusBadRequest)
		return
	}

	svc.DeleteDocument(&model.Document{ID: docID})

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Document deleted successfully"))
}

// DeleteAllDocuments removes loadable documents, or every namespaced entry
// when called with purge=true.
func (h *DocumentHandler) DeleteAllDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, _, ok := h.userService(w, r)
	if !ok {
		return
	}

	var n int
	if r.URL.Query().Get("purge") == "true" {
		n = svc.PurgeAllDocuments()
	} else {
		n = svc.DeleteAllDocuments()
	}
	writeJSON(w, model.DeleteAllResponse{Deleted: n})
}

func (h *DocumentHandler) GetLastDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, _, ok := h.userService(w, r)
	if !ok {
		return
	}
	writeJSON(w, model.LastDocumentResponse{DocID: svc.LastOpenedDocumentID()})
}

func (h *DocumentHandler) PushDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, userID, ok := h.userService(w, r)
	if !ok {
		return
	}

	docID := r.URL.Query().Get("docId")
	if docID == "" {
		http.Error(w, "Missing docId parameter", http.StatusBadRequest)
		return
	}

	doc, err := svc.Repo.Load(docID)
	if err != nil || doc == nil {
		http.Error(w, "Document not found", http.StatusNotFound)
		return
	}

	resp, err := svc.SaveDocumentToDatabase(r.Context(), userID, doc)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to push document %s: %v", docID, err)
		http.Error(w, "Failed to save document to database", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(resp)
}

func (h *DocumentHandler) GetRemoteDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, userID, ok := h.userService(w, r)
	if !ok {
		return
	}

	docs, err := svc.GetDocumentsFromDatabase(r.Context(), userID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to fetch remote documents: %v", err)
		http.Error(w, "Failed to get documents from database", http.StatusBadGateway)
		return
	}
	writeJSON(w, docs)
}

func (h *DocumentHandler) SyncDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, userID, ok := h.userService(w, r)
	if !ok {
		return
	}

	pushed, err := svc.SyncToDatabase(r.Context(), userID)
	resp := model.SyncResponse{Pushed: pushed}
	if err != nil {
		logger.Sugar.Errorf("Handler: Sync finished with errors: %v", err)
		resp.Error = err.Error()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(resp)
		return
	}
	writeJSON(w, resp)
}
