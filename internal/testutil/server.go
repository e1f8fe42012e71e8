// Package testutil provides test helpers for the lnr CLI.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// GraphQLRequest represents a decoded GraphQL request body.
type GraphQLRequest struct {
	Query     string          `json:"query"`
	Variables json.RawMessage `json:"variables"`
}

// MockServer is a test HTTP server that serves canned GraphQL responses.
type MockServer struct {
	Server   *httptest.Server
	handlers []handler
}

type handler struct {
	match   func(GraphQLRequest) bool
	respond func(http.ResponseWriter, GraphQLRequest)
}

// NewMockServer creates a new mock GraphQL server.
// Call Close() when done (or use t.Cleanup).
func NewMockServer(t *testing.T) *MockServer {
	t.Helper()

	ms := &MockServer{}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "expected POST", http.StatusMethodNotAllowed)
			return
		}

		var req GraphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request body", http.StatusBadRequest)
			return
		}

		for _, h := range ms.handlers {
			if h.match(req) {
				h.respond(w, req)
				return
			}
		}

		http.Error(w, "no handler matched request", http.StatusNotFound)
	}))

	t.Cleanup(ms.Server.Close)
	return ms
}

// URL returns the mock server's base URL.
func (ms *MockServer) URL() string {
	return ms.Server.URL
}

// Handle registers a handler that matches requests where match returns true.
func (ms *MockServer) Handle(match func(GraphQLRequest) bool, respond func(http.ResponseWriter, GraphQLRequest)) {
	ms.handlers = append(ms.handlers, handler{match: match, respond: respond})
}

// HandleQuery registers a handler that responds with a static JSON body
// when the request query contains the given substring.
func (ms *MockServer) HandleQuery(querySubstring string, responseBody any) {
	data, err := json.Marshal(responseBody)
	if err != nil {
		panic("testutil: failed to marshal response: " + err.Error())
	}

	ms.Handle(
		func(req GraphQLRequest) bool {
			return strings.Contains(req.Query, querySubstring)
		},
		func(w http.ResponseWriter, _ GraphQLRequest) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(data)
		},
	)
}

// HandleVariables registers a handler that responds with a static JSON body
// when the serialized request variables contain the given substring. Useful
// when several requests share one query and differ only in variables.
func (ms *MockServer) HandleVariables(variableSubstring string, responseBody any) {
	data, err := json.Marshal(responseBody)
	if err != nil {
		panic("testutil: failed to marshal response: " + err.Error())
	}

	ms.Handle(
		func(req GraphQLRequest) bool {
			return strings.Contains(string(req.Variables), variableSubstring)
		},
		func(w http.ResponseWriter, _ GraphQLRequest) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(data)
		},
	)
}

// HandleQueryFunc registers a handler that computes its response per request
// when the request query contains the given substring. Useful for handlers
// that change behavior across calls (e.g. fail-then-succeed sequences).
func (ms *MockServer) HandleQueryFunc(querySubstring string, respond func() any) {
	ms.Handle(
		func(req GraphQLRequest) bool {
			return strings.Contains(req.Query, querySubstring)
		},
		func(w http.ResponseWriter, _ GraphQLRequest) {
			data, err := json.Marshal(respond())
			if err != nil {
				http.Error(w, "marshal: "+err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(data)
		},
	)
}
