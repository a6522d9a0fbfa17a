// Package basekittest provides an in-memory BaseKit API for tests.
package basekittest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// Credentials accepted by the fake server.
const (
	Username = "reseller"
	Password = "hunter2"
)

// FlowURL is the login flow URL returned by auto-login.
const FlowURL = "https://login.basekit.test/flow/abc123"

type user struct {
	Ref          int    `json:"ref"`
	PackageRef   string `json:"subscriptionPackageRef"`
	StorageBytes int64  `json:"storageBytesUsed"`
	Deleted      bool   `json:"deleted"`
	Email        string `json:"-"`
	Username     string `json:"-"`
}

type site struct {
	Ref     int
	UserRef int
	Domain  string
}

// Server is a fake BaseKit API backed by maps.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	nextID int
	users  map[int]*user
	sites  map[int]*site
	calls  []string
	bodies map[string]map[string]any

	rejectedPackages map[string]bool
	rejectSites      bool
	packageDelay     time.Duration
}

// NewServer starts a fake BaseKit API. It is closed when the test ends.
func NewServer(t interface{ Cleanup(func()) }) *Server {
	s := &Server{
		nextID:           100,
		users:            make(map[int]*user),
		sites:            make(map[int]*site),
		bodies:           make(map[string]map[string]any),
		rejectedPackages: make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", s.createUser)
	mux.HandleFunc("GET /users/{ref}", s.getUser)
	mux.HandleFunc("DELETE /users/{ref}", s.deleteUser)
	mux.HandleFunc("GET /users/{ref}/sites", s.listSites)
	mux.HandleFunc("POST /users/{ref}/account-packages", s.setPackage)
	mux.HandleFunc("POST /users/{ref}/auto-login", s.autoLogin)
	mux.HandleFunc("POST /sites", s.createSite)
	mux.HandleFunc("DELETE /sites/{ref}", s.deleteSite)

	s.Server = httptest.NewServer(s.authenticate(mux))
	t.Cleanup(s.Close)

	return s
}

// RejectPackage makes assignments of packageRef fail with a 422.
func (s *Server) RejectPackage(packageRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rejectedPackages[packageRef] = true
}

// DelayPackageAssignment holds every POST /users/{ref}/account-packages for
// d before it is processed, or until the client goes away.
func (s *Server) DelayPackageAssignment(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.packageDelay = d
}

// RejectSiteCreation makes every POST /sites fail with a 400.
func (s *Server) RejectSiteCreation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rejectSites = true
}

// Calls returns "METHOD /path" for every request received, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

// LastBody returns the last JSON body received for "METHOD /path".
func (s *Server) LastBody(call string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bodies[call]
}

// UserCount returns the number of live users.
func (s *Server) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.users)
}

// SiteCount returns the number of live sites.
func (s *Server) SiteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sites)
}

// SetStorage sets the storage reported for a user.
func (s *Server) SetStorage(userRef string, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[atoi(userRef)]; ok {
		u.StorageBytes = bytes
	}
}

// MarkDeleted flags a user as deleted without removing it.
func (s *Server) MarkDeleted(userRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[atoi(userRef)]; ok {
		u.Deleted = true
	}
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		call := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.calls = append(s.calls, call)
		if body != nil {
			s.bodies[call] = body
		}
		s.mu.Unlock()

		if u, p, ok := r.BasicAuth(); !ok || u != Username || p != Password {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "message": "Invalid credentials"})
			return
		}

		r = r.WithContext(withBody(r.Context(), body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	username, _ := body["username"].(string)
	for _, u := range s.users {
		if u.Username == username {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"status":  400,
				"message": "Validation failed",
				"errors":  map[string]any{"username": map[string]any{"taken": "Username is already taken"}},
			})
			return
		}
	}

	s.nextID++
	email, _ := body["email"].(string)
	u := &user{Ref: s.nextID, Email: email, Username: username}
	s.users[u.Ref] = u

	writeJSON(w, http.StatusCreated, map[string]any{"accountHolder": map[string]any{"ref": u.Ref}})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[atoi(r.PathValue("ref"))]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"accountHolder": u})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := atoi(r.PathValue("ref"))
	if _, ok := s.users[ref]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User not found"})
		return
	}

	for _, st := range s.sites {
		if st.UserRef == ref {
			writeJSON(w, http.StatusConflict, map[string]any{"status": 409, "message": "User still has sites"})
			return
		}
	}

	delete(s.users, ref)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSites(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := atoi(r.PathValue("ref"))
	if _, ok := s.users[ref]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"sites": s.sitesOf(ref)})
}

func (s *Server) sitesOf(userRef int) []map[string]any {
	out := []map[string]any{}

	// Map order is random; report sites in creation order.
	for id := 0; id <= s.nextID; id++ {
		st, ok := s.sites[id]
		if !ok || st.UserRef != userRef {
			continue
		}
		out = append(out, map[string]any{
			"ref":           st.Ref,
			"primaryDomain": map[string]any{"domainName": st.Domain},
		})
	}

	return out
}

func (s *Server) setPackage(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	packageRef := fmt.Sprint(body["packageRef"])

	s.mu.Lock()
	delay := s.packageDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[atoi(r.PathValue("ref"))]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User not found"})
		return
	}

	if s.rejectedPackages[packageRef] {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"status":  422,
			"message": "Invalid package",
			"errors":  map[string]any{"packageRef": map[string]any{"invalid": "Package does not exist"}},
		})
		return
	}

	u.PackageRef = packageRef
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) autoLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[atoi(r.PathValue("ref"))]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"flowUrl": FlowURL})
}

func (s *Server) createSite(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rejectSites {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Domain already in use"})
		return
	}

	userRef := atoi(fmt.Sprint(body["accountHolderRef"]))
	if _, ok := s.users[userRef]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "User not found"})
		return
	}

	s.nextID++
	domainName, _ := body["domain"].(string)
	if domainName == "" {
		domainName = fmt.Sprintf("site%d.basekit-demo.test", s.nextID)
	}

	st := &site{Ref: s.nextID, UserRef: userRef, Domain: domainName}
	s.sites[st.Ref] = st

	writeJSON(w, http.StatusCreated, map[string]any{"site": map[string]any{
		"ref":           st.Ref,
		"primaryDomain": map[string]any{"domainName": st.Domain},
	}})
}

func (s *Server) deleteSite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := atoi(r.PathValue("ref"))
	if _, ok := s.sites[ref]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"status": 404, "message": "Site not found"})
		return
	}

	delete(s.sites, ref)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}

	return n
}

type bodyKey struct{}

func withBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

func bodyFrom(ctx context.Context) map[string]any {
	body, _ := ctx.Value(bodyKey{}).(map[string]any)
	if body == nil {
		return map[string]any{}
	}

	return body
}
