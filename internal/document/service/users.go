package service

import (
	"net/url"
	"sync"

	"mindmaps/internal/document/repository"
	"mindmaps/internal/storage"
)

// UserKeyPrefix is the persistent-store namespace holding one user's entries.
// The id is escaped so that no user's prefix is a prefix of another's.
func UserKeyPrefix(userID string) string {
	return "users/" + url.QueryEscape(userID) + "/"
}

// UserServices hands out a DocumentService per user. All users share the
// persistent store, each under UserKeyPrefix, while every user gets a private
// session store that lives as long as the process.
type UserServices struct {
	persistent storage.Store
	remote     *repository.RemoteRepository

	mu       sync.Mutex
	sessions map[string]storage.Store
}

func NewUserServices(persistent storage.Store, remote *repository.RemoteRepository) *UserServices {
	return &UserServices{
		persistent: persistent,
		remote:     remote,
		sessions:   make(map[string]storage.Store),
	}
}

// For returns the DocumentService scoped to userID.
func (u *UserServices) For(userID string) *DocumentService {
	u.mu.Lock()
	session, ok := u.sessions[userID]
	if !ok {
		session = storage.NewSession()
		u.sessions[userID] = session
	}
	u.mu.Unlock()

	repo := repository.NewDocumentRepository(storage.NewPrefixStore(u.persistent, UserKeyPrefix(userID)))
	return NewDocumentService(repo, u.remote, session)
}
