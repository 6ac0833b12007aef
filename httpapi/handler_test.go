package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	autocrud "github.com/hmaia/autocrud"
)

type memoryRepo struct {
	mu      sync.Mutex
	records map[string]autocrud.Record
	order   []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[string]autocrud.Record{}}
}

func (m *memoryRepo) Find(_ context.Context, _ string, id any) (autocrud.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[fmt.Sprint(id)]
	if !ok {
		return nil, autocrud.ErrNotFound
	}
	return rec, nil
}

func (m *memoryRepo) FindBy(_ context.Context, _ string, match autocrud.Record) (autocrud.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range m.order {
		rec := m.records[key]
		found := true
		for f, want := range match {
			if rec[f] != want {
				found = false
				break
			}
		}
		if found {
			return rec, nil
		}
	}
	return nil, autocrud.ErrNotFound
}

func (m *memoryRepo) List(_ context.Context, _ string, page autocrud.Page) ([]autocrud.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []autocrud.Record{}
	for i, key := range m.order {
		if i < page.Offset {
			continue
		}
		if len(out) >= page.Limit {
			break
		}
		out = append(out, m.records[key])
	}
	return out, nil
}

func (m *memoryRepo) Count(_ context.Context, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.records)), nil
}

func (m *memoryRepo) Insert(_ context.Context, _ string, rec autocrud.Record) (autocrud.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprint(rec["id"])
	m.records[key] = rec
	m.order = append(m.order, key)
	return rec, nil
}

func (m *memoryRepo) Update(_ context.Context, _ string, id any, partial autocrud.Record) (autocrud.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[fmt.Sprint(id)]
	if !ok {
		return nil, autocrud.ErrNotFound
	}
	for f, v := range partial {
		rec[f] = v
	}
	return rec, nil
}

func (m *memoryRepo) Delete(_ context.Context, _ string, id any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprint(id)
	if _, ok := m.records[key]; !ok {
		return autocrud.ErrNotFound
	}
	delete(m.records, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

type apiModel struct {
	name   string
	fields []autocrud.Field
}

func (m apiModel) ModelName() string             { return m.name }
func (m apiModel) ModelFields() []autocrud.Field { return m.fields }

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newItemServer(t *testing.T) (*httptest.Server, *memoryRepo) {
	t.Helper()

	repo := newMemoryRepo()

	router, err := autocrud.New().
		WithModel(apiModel{
			name: "items",
			fields: []autocrud.Field{
				{Name: "id", Kind: autocrud.KindString, PrimaryKey: true},
				{Name: "name", Kind: autocrud.KindString},
				{Name: "qty", Kind: autocrud.KindInt, Default: 0},
			},
		}).
		WithRepository(repo).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(router.Close)

	mux := chi.NewRouter()
	Mount(mux, "/api", router)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, repo
}

func doJSON(t *testing.T, method, url string, body any, token string) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body failed: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body failed: %v", err)
	}
	return resp, out.Bytes()
}

func TestItemCRUDOverHTTP(t *testing.T) {
	srv, _ := newItemServer(t)
	base := srv.URL + "/api/items"

	// Create.
	resp, body := doJSON(t, http.MethodPost, base+"/", map[string]any{"id": "i1", "name": "widget"}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created["qty"] != float64(0) {
		t.Fatalf("expected default qty, got %v", created["qty"])
	}

	// Read back.
	resp, body = doJSON(t, http.MethodGet, base+"/i1", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: expected 200, got %d: %s", resp.StatusCode, body)
	}

	// Partial update.
	resp, body = doJSON(t, http.MethodPatch, base+"/i1", map[string]any{"qty": 5}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var updated map[string]any
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode patch response: %v", err)
	}
	if updated["qty"] != float64(5) || updated["name"] != "widget" {
		t.Fatalf("unexpected patched record: %v", updated)
	}

	// List and count.
	resp, body = doJSON(t, http.MethodGet, base+"/?offset=0&limit=10", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var listed []map[string]any
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 item, got %d", len(listed))
	}

	resp, body = doJSON(t, http.MethodGet, base+"/count", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("count: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var counted map[string]int64
	if err := json.Unmarshal(body, &counted); err != nil {
		t.Fatalf("decode count response: %v", err)
	}
	if counted["count"] != 1 {
		t.Fatalf("expected count 1, got %d", counted["count"])
	}

	// Delete.
	resp, body = doJSON(t, http.MethodDelete, base+"/i1", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", resp.StatusCode, body)
	}
	resp, _ = doJSON(t, http.MethodGet, base+"/i1", nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestBulkRoutes(t *testing.T) {
	srv, _ := newItemServer(t)
	base := srv.URL + "/api/items"

	resp, body := doJSON(t, http.MethodPost, base+"/bulk", []map[string]any{
		{"id": "i1", "name": "one"},
		{"id": "i2", "name": "two"},
		{"id": "i3", "name": "three"},
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("bulk create: expected 201, got %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPatch, base+"/bulk", []map[string]any{
		{"id": "i1", "qty": 5},
		{"id": "missing", "name": "ghost"},
		{"id": "i2", "name": "two!"},
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk update: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var updated []map[string]any
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode bulk update response: %v", err)
	}
	if len(updated) != 2 {
		t.Fatalf("expected 2 updated items, got %d: %s", len(updated), body)
	}
	if updated[0]["qty"] != float64(5) || updated[1]["name"] != "two!" {
		t.Fatalf("unexpected bulk update result: %s", body)
	}

	resp, body = doJSON(t, http.MethodDelete, base+"/bulk", map[string]any{
		"ids": []string{"i1", "i3", "missing"},
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk delete: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var res map[string]int
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatalf("decode bulk delete response: %v", err)
	}
	if res["requested"] != 3 || res["deleted"] != 2 {
		t.Fatalf("unexpected bulk delete result: %v", res)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	srv, _ := newItemServer(t)
	base := srv.URL + "/api/items"

	// Unknown field -> 400.
	resp, _ := doJSON(t, http.MethodPost, base+"/", map[string]any{"id": "i1", "bogus": 1}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	// Malformed JSON -> 400.
	req, _ := http.NewRequest(http.MethodPost, base+"/", bytes.NewBufferString("{not json"))
	raw, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	raw.Body.Close()
	if raw.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad JSON, got %d", raw.StatusCode)
	}

	// Missing record -> 404.
	resp, _ = doJSON(t, http.MethodGet, base+"/missing", nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	// Invalid pagination -> 400.
	resp, _ = doJSON(t, http.MethodGet, base+"/?offset=abc", nil, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad offset, got %d", resp.StatusCode)
	}
}

func TestIntegerIDCoercion(t *testing.T) {
	repo := newMemoryRepo()

	router, err := autocrud.New().
		WithModel(apiModel{
			name: "orders",
			fields: []autocrud.Field{
				{Name: "id", Kind: autocrud.KindInt, PrimaryKey: true},
				{Name: "total", Kind: autocrud.KindFloat},
			},
		}).
		WithRepository(repo).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(router.Close)

	mux := chi.NewRouter()
	Mount(mux, "/api", router)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	base := srv.URL + "/api/orders"

	resp, body := doJSON(t, http.MethodPost, base+"/", map[string]any{"id": 7, "total": 9.5}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.StatusCode, body)
	}

	resp, _ = doJSON(t, http.MethodGet, base+"/7", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected integer path id to resolve, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, base+"/not-a-number", nil, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-integer id, got %d", resp.StatusCode)
	}
}

func TestLoginLogoutOverHTTP(t *testing.T) {
	repo := newMemoryRepo()
	repo.records["u1"] = autocrud.Record{"id": "u1", "email": "sam@example.com", "password": "hunter2"}
	repo.order = append(repo.order, "u1")

	cfg := autocrud.Config{}
	cfg.Login.Enabled = true
	cfg.Login.Fields = []string{"email", "password"}
	cfg.Login.TTL = time.Hour
	cfg.Auth.Required = true

	router, err := autocrud.New().
		WithConfig(cfg).
		WithRedis(newRedisClient(t)).
		WithModel(apiModel{
			name: "users",
			fields: []autocrud.Field{
				{Name: "id", Kind: autocrud.KindString, PrimaryKey: true},
				{Name: "email", Kind: autocrud.KindString},
				{Name: "password", Kind: autocrud.KindString},
			},
		}).
		WithRepository(repo).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(router.Close)

	mux := chi.NewRouter()
	Mount(mux, "/api", router)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	base := srv.URL + "/api/users"

	// Unauthenticated reads are rejected.
	resp, _ := doJSON(t, http.MethodGet, base+"/u1", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	// Wrong credentials.
	resp, _ = doJSON(t, http.MethodPost, base+"/login", map[string]any{
		"email": "sam@example.com", "password": "wrong",
	}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad credentials, got %d", resp.StatusCode)
	}

	// Login.
	resp, body := doJSON(t, http.MethodPost, base+"/login", map[string]any{
		"email": "sam@example.com", "password": "hunter2",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var login struct {
		Token   string         `json:"token"`
		Subject map[string]any `json:"subject"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.Token == "" || login.Subject["email"] != "sam@example.com" {
		t.Fatalf("unexpected login response: %s", body)
	}

	// Token grants access.
	resp, _ = doJSON(t, http.MethodGet, base+"/u1", nil, login.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}

	// Logout revokes it.
	resp, _ = doJSON(t, http.MethodPost, base+"/logout", nil, login.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, base+"/u1", nil, login.Token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}

	// Logout without a token.
	resp, _ = doJSON(t, http.MethodPost, base+"/logout", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for logout without token, got %d", resp.StatusCode)
	}
}
