package router

import (
	"net/http"

	docHandler "mindmaps/internal/document"
	"mindmaps/internal/document/service"
	"mindmaps/middleware"
)

// Setup wires the document routes behind JWT auth and CORS.
func Setup(services *service.UserServices, jwtSecret string, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	h := docHandler.NewDocumentHandler(services)
	auth := middleware.AuthMiddleware(jwtSecret)

	mux.Handle("/api/documents", auth(http.HandlerFunc(h.GetDocuments)))
	mux.Handle("/api/documents/ids", auth(http.HandlerFunc(h.GetDocumentIDs)))
	mux.Handle("/api/documents/get", auth(http.HandlerFunc(h.GetDocument)))
	mux.Handle("/api/documents/save", auth(http.HandlerFunc(h.SaveDocument)))
	mux.Handle("/api/documents/delete", auth(http.HandlerFunc(h.DeleteDocument)))
	mux.Handle("/api/documents/all", auth(http.HandlerFunc(h.DeleteAllDocuments)))
	mux.Handle("/api/documents/last", auth(http.HandlerFunc(h.GetLastDocument)))
	mux.Handle("/api/documents/push", auth(http.HandlerFunc(h.PushDocument)))
	mux.Handle("/api/documents/remote", auth(http.HandlerFunc(h.GetRemoteDocuments)))
	mux.Handle("/api/documents/sync", auth(http.HandlerFunc(h.SyncDocuments)))

	return middleware.CORSMiddleware(mux, allowedOrigins)
}
