package handlers

import (
	"encoding/gob"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionName  = "admin-session"
	sessionIDKey = "sid"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Register types for gob encoding (used by sessions)
func init() {
	gob.Register(FlashMessage{})
}

type FlashMessage struct {
	Type    string
	Message string
}

// Sessions хранит в cookie только идентификатор сессии и flash-сообщения.
// Токен backend лежит на сервере в storage.TokenStorage.
type Sessions struct {
	store sessions.Store
}

func NewSessions(store sessions.Store) *Sessions {
	return &Sessions{store: store}
}

// NewCookieStore настраивает cookie-хранилище сессий
func NewCookieStore(key []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	return store
}

// Get возвращает сессию запроса; если cookie не расшифровалась, сессия новая
func (s *Sessions) Get(r *http.Request) *sessions.Session {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		session, _ = s.store.New(r, SessionName)
	}
	return session
}

// SessionID - идентификатор сессии из cookie или пустая строка
func (s *Sessions) SessionID(r *http.Request) string {
	sid, _ := s.Get(r).Values[sessionIDKey].(string)
	return sid
}

// Start выдаёт новый идентификатор сессии (после входа старый не переиспользуется)
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request) (string, error) {
	session := s.Get(r)
	sid := uuid.NewString()
	session.Values[sessionIDKey] = sid
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return sid, nil
}

// End забывает идентификатор; flash-сообщения в той же cookie продолжают работать
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) error {
	session := s.Get(r)
	delete(session.Values, sessionIDKey)
	return session.Save(r, w)
}

// Flash добавляет сообщение, которое покажется на следующей странице
func (s *Sessions) Flash(w http.ResponseWriter, r *http.Request, typ, message string) error {
	session := s.Get(r)
	session.AddFlash(FlashMessage{Type: typ, Message: message})
	return session.Save(r, w)
}

// GetFlash retrieves flash messages from the session
func GetFlash(session *sessions.Session) []FlashMessage {
	flashes := session.Flashes()
	var messages []FlashMessage
	for _, f := range flashes {
		if fm, ok := f.(FlashMessage); ok {
			messages = append(messages, fm)
		}
	}
	return messages
}
