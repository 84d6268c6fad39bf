package usecase

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/pkg/backend"
)

func testLogger() logger.Logger {
	return logger.New(logger.Config{Level: "panic", Format: "text", ServiceName: "test"})
}

type backendCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// mockBackend replays canned responses keyed by "METHOD path" and records
// every call for assertion.
type mockBackend struct {
	mu        sync.Mutex
	calls     []backendCall
	responses map[string]*backend.Response
	err       error
}

func newMockBackend() *mockBackend {
	return &mockBackend{responses: make(map[string]*backend.Response)}
}

func (m *mockBackend) respond(method, path string, resp *backend.Response) {
	m.responses[method+" "+path] = resp
}

func (m *mockBackend) lookup(method, path string) (*backend.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if resp, ok := m.responses[method+" "+path]; ok {
		return resp, nil
	}
	return &backend.Response{
		StatusCode: http.StatusNotFound,
		Envelope:   backend.Envelope{Success: false, Code: "NOT_FOUND", Message: "no route"},
	}, nil
}

func (m *mockBackend) record(c backendCall) {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	m.mu.Unlock()
}

func (m *mockBackend) Get(ctx context.Context, path string, query url.Values) (*backend.Response, error) {
	m.record(backendCall{Method: http.MethodGet, Path: path, Query: query})
	return m.lookup(http.MethodGet, path)
}

func (m *mockBackend) Post(ctx context.Context, path string, body interface{}) (*backend.Response, error) {
	m.record(backendCall{Method: http.MethodPost, Path: path, Body: body})
	return m.lookup(http.MethodPost, path)
}

func (m *mockBackend) Put(ctx context.Context, path string, body interface{}) (*backend.Response, error) {
	m.record(backendCall{Method: http.MethodPut, Path: path, Body: body})
	return m.lookup(http.MethodPut, path)
}

func (m *mockBackend) Delete(ctx context.Context, path string) (*backend.Response, error) {
	m.record(backendCall{Method: http.MethodDelete, Path: path})
	return m.lookup(http.MethodDelete, path)
}

func okResponse(body string) *backend.Response {
	return &backend.Response{
		StatusCode: http.StatusOK,
		Envelope:   backend.Envelope{Success: true},
		Body:       []byte(body),
	}
}

func errResponse(status int, code, message string) *backend.Response {
	return &backend.Response{
		StatusCode: status,
		Envelope:   backend.Envelope{Success: false, Code: code, Message: message},
	}
}

type memStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{items: make(map[string]string)}
}

func (s *memStorage) GetItem(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key], nil
}

func (s *memStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *memStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

type mockSessions struct {
	tokens *backend.TokenStore
}

func newMockSessions() *mockSessions {
	return &mockSessions{tokens: backend.NewTokenStore(newMemStorage())}
}

func (m *mockSessions) Tokens(context.Context) *backend.TokenStore {
	return m.tokens
}
