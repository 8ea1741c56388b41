package hcloud

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

// testServer creates an httptest server that can be used to mock Hetzner Cloud API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

// newTestServer creates a new test server for mocking the Hetzner Cloud API.
func newTestServer() *testServer {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	return &testServer{
		server: server,
		mux:    mux,
	}
}

func (ts *testServer) close() {
	ts.server.Close()
}

// client returns a Client configured to use the test server.
func (ts *testServer) client() *Client {
	return NewClient("test-token", WithEndpoint(ts.server.URL))
}

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
