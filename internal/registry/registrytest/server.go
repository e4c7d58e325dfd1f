// Package registrytest runs an in-process schema registry speaking the read
// side of the REST API, for tests that need a live endpoint without a real
// registry deployment.
package registrytest

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the registry error envelope.
type ErrorResponse struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
}

// SchemaRecord is the wire form of one registered version.
type SchemaRecord struct {
	Schema     string `json:"schema"`
	Subject    string `json:"subject"`
	Version    int    `json:"version"`
	ID         int    `json:"id"`
	SchemaType string `json:"schemaType,omitempty"`
}

type record struct {
	version int
	schema  string
}

// Server is a seedable fake registry. Seed versions with AddVersion and point
// an HTTP client at URL.
type Server struct {
	mu       sync.Mutex
	subjects map[string][]record
	failing  map[string]bool

	srv *httptest.Server
}

// New starts a fake registry. Callers must Close it when done.
func New() *Server {
	s := &Server{
		subjects: make(map[string][]record),
		failing:  make(map[string]bool),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/subjects", s.listSubjects)
	router.GET("/subjects/:subject/versions", s.listVersions)
	router.GET("/subjects/:subject/versions/:version", s.getVersion)

	s.srv = httptest.NewServer(router)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// AddVersion registers schema content as the subject's next version and
// returns the assigned version number.
func (s *Server) AddVersion(subject, schema string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := 1
	if records := s.subjects[subject]; len(records) > 0 {
		next = records[len(records)-1].version + 1
	}
	s.subjects[subject] = append(s.subjects[subject], record{version: next, schema: schema})
	return next
}

// FailSubject makes every request for the subject answer 500, to exercise
// fetch failure handling.
func (s *Server) FailSubject(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[subject] = true
}

func (s *Server) listSubjects(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects := make([]string, 0, len(s.subjects))
	for subject := range s.subjects {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	c.JSON(http.StatusOK, subjects)
}

func (s *Server) listVersions(c *gin.Context) {
	subject := c.Param("subject")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing[subject] {
		c.JSON(http.StatusInternalServerError, ErrorResponse{ErrorCode: 50001, Message: "error in the backend datastore"})
		return
	}

	records, ok := s.subjects[subject]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{ErrorCode: 40401, Message: "subject not found"})
		return
	}

	versions := make([]int, 0, len(records))
	for _, r := range records {
		versions = append(versions, r.version)
	}
	c.JSON(http.StatusOK, versions)
}

func (s *Server) getVersion(c *gin.Context) {
	subject := c.Param("subject")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing[subject] {
		c.JSON(http.StatusInternalServerError, ErrorResponse{ErrorCode: 50001, Message: "error in the backend datastore"})
		return
	}

	records, ok := s.subjects[subject]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{ErrorCode: 40401, Message: "subject not found"})
		return
	}

	version, err := strconv.Atoi(c.Param("version"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{ErrorCode: 42202, Message: "invalid version"})
		return
	}

	for i, r := range records {
		if r.version == version {
			c.JSON(http.StatusOK, SchemaRecord{
				Schema:  r.schema,
				Subject: subject,
				Version: r.version,
				ID:      i + 1,
			})
			return
		}
	}
	c.JSON(http.StatusNotFound, ErrorResponse{ErrorCode: 40402, Message: "version not found"})
}
