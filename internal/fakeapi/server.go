// Package fakeapi serves an in-memory Story Spoiler API. It answers with the
// same status codes and messages as the public deployment so the conformance
// suite can run offline.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/Octrafic/spoilercheck/internal/infra/logger"
)

const (
	MsgCreated       = "Successfully created!"
	MsgEdited        = "Successfully edited"
	MsgDeleted       = "Deleted successfully!"
	MsgNoSpoilers    = "No spoilers..."
	MsgUnableDelete  = "Unable to delete this story spoiler!"
	MsgInvalidLogin  = "Invalid username or password!"
	MsgMissingFields = "Title and description are required!"
)

// Story is a stored record as returned by GET /api/Story/All
type Story struct {
	ID          string `json:"storyId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Owner       string `json:"owner"`
}

type storyPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// Options configures the fake server
type Options struct {
	// Users maps usernames to passwords
	Users map[string]string

	Secret   []byte
	TokenTTL time.Duration

	// OmitAccessToken makes login succeed without an accessToken field
	OmitAccessToken bool
}

// DefaultOptions accepts the suite's default credentials
func DefaultOptions() Options {
	return Options{
		Users:    map[string]string{"Angel123": "123456"},
		Secret:   []byte("story-spoiler-fake"),
		TokenTTL: time.Hour,
	}
}

// Server is an http.Handler holding stories in memory
type Server struct {
	opts Options
	mux  *http.ServeMux

	mu      sync.Mutex
	stories map[string]*Story
	order   []string
}

// New creates a fake API with the given options
func New(opts Options) *Server {
	if len(opts.Secret) == 0 {
		opts.Secret = DefaultOptions().Secret
	}
	if opts.TokenTTL == 0 {
		opts.TokenTTL = time.Hour
	}

	s := &Server{
		opts:    opts,
		mux:     http.NewServeMux(),
		stories: make(map[string]*Story),
	}

	s.mux.HandleFunc("POST /api/User/Authentication", s.handleAuthenticate)
	s.mux.HandleFunc("POST /api/Story/Create", s.requireAuth(s.handleCreate))
	s.mux.HandleFunc("PUT /api/Story/Edit/{id}", s.requireAuth(s.handleEdit))
	s.mux.HandleFunc("GET /api/Story/All", s.requireAuth(s.handleAll))
	s.mux.HandleFunc("DELETE /api/Story/Delete/{id}", s.requireAuth(s.handleDelete))

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Fake API request", logger.String("method", r.Method), logger.String("path", r.URL.Path))
	s.mux.ServeHTTP(w, r)
}

// Len returns the number of stored stories
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stories)
}

// Get returns a copy of a stored story
func (s *Server) Get(id string) (Story, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stories[id]
	if !ok {
		return Story{}, false
	}
	return *st, true
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body!")
		return
	}

	want, ok := s.opts.Users[creds.Username]
	if !ok || want != creds.Password {
		writeMsg(w, http.StatusUnauthorized, MsgInvalidLogin)
		return
	}

	if s.opts.OmitAccessToken {
		writeJSON(w, http.StatusOK, map[string]string{"username": creds.Username})
		return
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   creds.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.opts.TokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.opts.Secret)
	if err != nil {
		writeMsg(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"username":    creds.Username,
		"accessToken": signed,
	})
}

type authedHandler func(w http.ResponseWriter, r *http.Request, user string)

func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		claims := &jwt.StandardClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.opts.Secret, nil
		})
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		next(w, r, claims.Subject)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, user string) {
	var p storyPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body!")
		return
	}
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
		writeMsg(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	s.mu.Lock()
	id := uuid.NewString()
	s.stories[id] = &Story{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		URL:         p.URL,
		Owner:       user,
	}
	s.order = append(s.order, id)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{
		"msg":     MsgCreated,
		"storyId": id,
	})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request, _ string) {
	id := r.PathValue("id")

	var p storyPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMsg(w, http.StatusBadRequest, "Invalid request body!")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stories[id]
	if !ok {
		writeMsg(w, http.StatusNotFound, MsgNoSpoilers)
		return
	}
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
		writeMsg(w, http.StatusBadRequest, MsgMissingFields)
		return
	}

	st.Title = p.Title
	st.Description = p.Description
	st.URL = p.URL
	writeMsg(w, http.StatusOK, MsgEdited)
}

func (s *Server) handleAll(w http.ResponseWriter, _ *http.Request, _ string) {
	s.mu.Lock()
	out := make([]Story, 0, len(s.order))
	for _, id := range s.order {
		if st, ok := s.stories[id]; ok {
			out = append(out, *st)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, _ string) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.stories[id]; !ok {
		writeMsg(w, http.StatusBadRequest, MsgUnableDelete)
		return
	}
	delete(s.stories, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	writeMsg(w, http.StatusOK, MsgDeleted)
}

func writeMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write fake API response", logger.Err(err))
	}
}
