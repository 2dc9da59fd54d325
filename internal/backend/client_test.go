package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"planboard-cli/internal/model"
	"planboard-cli/internal/store"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	purges  int
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (m *memCache) CachedResponse(_ context.Context, key string, _ time.Duration) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.entries[key]
	return b, ok, nil
}

func (m *memCache) PutResponse(_ context.Context, key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = body
	return nil
}

func (m *memCache) PurgeCache(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string][]byte{}
	m.purges++
	return nil
}

type recorded struct {
	method, path, query string
	header             http.Header
	body               map[string]any
}

func newServer(t *testing.T, routes map[string]func(w http.ResponseWriter)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, header: r.Header.Clone()}
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		mu.Lock()
		reqs = append(reqs, rec)
		mu.Unlock()

		h, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"no route"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		h(w)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func respond(body string) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) { _, _ = io.WriteString(w, body) }
}

func TestClient_ListPlanningUnwrapsEnvelopes(t *testing.T) {
	srv, reqs := newServer(t, map[string]func(http.ResponseWriter){
		"GET /project-planning-list/12": respond(`{"data":[{"id":4,"description":"Design","start_date":"2024-01-10","end_date":"2024-01-12","progress":"50","status":"in_progress"}]}`),
		"GET /projects":                 respond(`{"data":{"current_page":1,"data":[{"id":"12","name":"Apollo"}]}}`),
	})
	c := New(Options{BaseURL: srv.URL + "/", Token: "tok"})

	items, err := c.ListPlanning(context.Background(), "12")
	if err != nil {
		t.Fatalf("ListPlanning: %v", err)
	}
	if len(items) != 1 || items[0].ID != "4" || items[0].Progress != 50 {
		t.Fatalf("unexpected items: %+v", items)
	}

	projects, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Apollo" {
		t.Fatalf("expected paginated list unwrapped; got %+v", projects)
	}

	got := (*reqs)[0]
	if got.header.Get("Authorization") != "Bearer tok" {
		t.Fatalf("expected bearer token; got %q", got.header.Get("Authorization"))
	}
	if got.header.Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}
	if (*reqs)[1].header.Get("X-Request-ID") == got.header.Get("X-Request-ID") {
		t.Fatalf("expected a fresh request id per call")
	}
}

func TestClient_UpdateModuleBody(t *testing.T) {
	srv, reqs := newServer(t, map[string]func(http.ResponseWriter){
		"POST /update-project-module/9": respond(`{"data":{"id":9,"name":"Auth","status":"completed","is_completed":true,"completed_at":"2024-06-03"}}`),
	})
	c := New(Options{BaseURL: srv.URL})

	day := "2024-06-03"
	m, err := c.UpdateModule(context.Background(), "9", model.ModuleInput{
		Name: "Auth", Status: model.StatusCompleted, IsCompleted: true, CompletedAt: &day,
	})
	if err != nil {
		t.Fatalf("UpdateModule: %v", err)
	}
	if m.Status != model.StatusCompleted || !m.IsCompleted {
		t.Fatalf("unexpected module: %+v", m)
	}
	body := (*reqs)[0].body
	if body["status"] != "completed" || body["is_completed"] != true || body["completed_at"] != "2024-06-03" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["description"]; !ok {
		t.Fatalf("expected description always sent; got %v", body)
	}
	if (*reqs)[0].header.Get("Content-Type") != "application/json" {
		t.Fatalf("expected json content type")
	}
}

func TestClient_ErrorsCarryBackendMessage(t *testing.T) {
	srv, _ := newServer(t, map[string]func(http.ResponseWriter){
		"GET /my-profile": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Unauthenticated."}`)
		},
		"POST /update-project-module/1": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"message":"The name field is required."}`)
		},
	})
	c := New(Options{BaseURL: srv.URL})

	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized; got %v", err)
	}

	_, err = c.UpdateModule(context.Background(), "1", model.ModuleInput{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 APIError; got %v", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected 422 not to read as unauthorized")
	}
	if got := Message(err); got != "The name field is required." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestClient_CachesGetsAndPurgesOnMutation(t *testing.T) {
	srv, reqs := newServer(t, map[string]func(http.ResponseWriter){
		"GET /project-module-list/3":     respond(`{"data":[{"id":1,"name":"API","status":"pending"}]}`),
		"DELETE /delete-project-module/1": respond(`{"message":"deleted"}`),
	})
	cache := newMemCache()
	c := New(Options{BaseURL: srv.URL, Cache: cache, CacheTTL: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		mods, err := c.ListModules(ctx, "3")
		if err != nil || len(mods) != 1 {
			t.Fatalf("ListModules: %v %+v", err, mods)
		}
	}
	if len(*reqs) != 1 {
		t.Fatalf("expected second list served from cache; got %d requests", len(*reqs))
	}

	if err := c.DeleteModule(ctx, "1"); err != nil {
		t.Fatalf("DeleteModule: %v", err)
	}
	if cache.purges != 1 {
		t.Fatalf("expected cache purge after mutation; got %d", cache.purges)
	}
	if _, err := c.ListModules(ctx, "3"); err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	if len(*reqs) != 3 {
		t.Fatalf("expected refetch after purge; got %d requests", len(*reqs))
	}
}

func TestClient_LoginAcceptsBothShapes(t *testing.T) {
	srv, reqs := newServer(t, map[string]func(http.ResponseWriter){
		"POST /login": respond(`{"data":{"user":{"id":1,"name":"Ada"},"access_token":"abc"}}`),
	})
	sess, err := New(Options{BaseURL: srv.URL}).Login(context.Background(), " ada@example.com ", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token != "abc" || sess.User.Name != "Ada" {
		t.Fatalf("unexpected session: %+v", sess)
	}
	if (*reqs)[0].body["email"] != "ada@example.com" {
		t.Fatalf("expected trimmed email; got %v", (*reqs)[0].body)
	}

	srv2, _ := newServer(t, map[string]func(http.ResponseWriter){
		"POST /login": respond(`{"user":{"id":"2","name":"Bob"},"token":"xyz"}`),
	})
	sess, err = New(Options{BaseURL: srv2.URL}).Login(context.Background(), "bob", "pw")
	if err != nil || sess.Token != "xyz" || sess.User.ID != "2" {
		t.Fatalf("unexpected bare login: %+v %v", sess, err)
	}

	srv3, _ := newServer(t, map[string]func(http.ResponseWriter){
		"POST /login": respond(`{"data":{"user":{"id":1}}}`),
	})
	if _, err := New(Options{BaseURL: srv3.URL}).Login(context.Background(), "x", "y"); err == nil {
		t.Fatalf("expected error for tokenless response")
	}
}

func TestClient_TeamAndCalendar(t *testing.T) {
	srv, reqs := newServer(t, map[string]func(http.ResponseWriter){
		"POST /add-user-to-project":   respond(`{"message":"ok"}`),
		"GET /get-weekend-dates/2024": respond(`{"data":{"dates":["2024-01-06","2024-01-07"]}}`),
		"GET /admin/get-user-list":    respond(`{"data":{"data":[{"id":5,"name":"Eve"}]}}`),
	})
	c := New(Options{BaseURL: srv.URL})
	ctx := context.Background()

	if err := c.AddUserToProject(ctx, "12", "5"); err != nil {
		t.Fatalf("AddUserToProject: %v", err)
	}
	if got := (*reqs)[0].body; got["project_id"] != float64(12) || got["user_id"] != float64(5) {
		t.Fatalf("expected numeric ids; got %v", got)
	}

	dates, err := c.WeekendDates(ctx, 2024)
	if err != nil || len(dates) != 2 {
		t.Fatalf("WeekendDates: %v %v", dates, err)
	}

	users, err := c.ListUsers(ctx, 0)
	if err != nil || len(users) != 1 {
		t.Fatalf("ListUsers: %v %v", users, err)
	}
	if (*reqs)[2].query != "per_page=200" {
		t.Fatalf("expected default page size; got %q", (*reqs)[2].query)
	}
}

func TestClient_LogsRequests(t *testing.T) {
	srv, _ := newServer(t, map[string]func(http.ResponseWriter){
		"GET /vendors": respond(`{"data":[]}`),
	})
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(Options{BaseURL: srv.URL, Logger: zap.New(core)})

	if _, err := c.ListVendors(context.Background()); err != nil {
		t.Fatalf("ListVendors: %v", err)
	}
	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log; got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/vendors" || fields["status"] != int64(200) || fields["request_id"] == "" {
		t.Fatalf("unexpected log fields: %v", fields)
	}
}

func TestClient_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := New(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.ListHolidays(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded; got %v", err)
	}
}

func TestClient_CacheIsScopedToServer(t *testing.T) {
	srvA, reqsA := newServer(t, map[string]func(http.ResponseWriter){
		"GET /projects": respond(`{"data":[{"id":1,"name":"FromServerA"}]}`),
	})
	srvB, reqsB := newServer(t, map[string]func(http.ResponseWriter){
		"GET /projects": respond(`{"data":[{"id":1,"name":"FromServerB"}]}`),
	})
	st, err := store.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	ctx := context.Background()

	a := New(Options{BaseURL: srvA.URL, Token: "tok-a", Cache: st, CacheTTL: time.Minute})
	b := New(Options{BaseURL: srvB.URL, Token: "tok-b", Cache: st, CacheTTL: time.Minute})

	ps, err := a.ListProjects(ctx)
	if err != nil || len(ps) != 1 || ps[0].Name != "FromServerA" {
		t.Fatalf("server A: %+v %v", ps, err)
	}
	ps, err = b.ListProjects(ctx)
	if err != nil || len(ps) != 1 || ps[0].Name != "FromServerB" {
		t.Fatalf("expected server B's own data, got %+v %v", ps, err)
	}
	if len(*reqsB) != 1 || (*reqsB)[0].header.Get("Authorization") != "Bearer tok-b" {
		t.Fatalf("expected server B hit with its own token; got %+v", *reqsB)
	}

	if _, err := a.ListProjects(ctx); err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(*reqsA) != 1 {
		t.Fatalf("expected server A's entry to still be cached; got %d requests", len(*reqsA))
	}
}

func TestClient_SendsClientID(t *testing.T) {
	srv, reqs := newServer(t, map[string]func(http.ResponseWriter){
		"GET /vendors": respond(`{"data":[]}`),
	})
	ctx := context.Background()
	if _, err := New(Options{BaseURL: srv.URL, ClientID: " install-1 "}).ListVendors(ctx); err != nil {
		t.Fatalf("ListVendors: %v", err)
	}
	if _, err := New(Options{BaseURL: srv.URL}).ListVendors(ctx); err != nil {
		t.Fatalf("ListVendors: %v", err)
	}
	if got := (*reqs)[0].header.Get("X-Client-ID"); got != "install-1" {
		t.Fatalf("expected X-Client-ID install-1, got %q", got)
	}
	if _, ok := (*reqs)[1].header["X-Client-Id"]; ok {
		t.Fatalf("expected no X-Client-ID without an install id")
	}
}

func TestClient_AdminCRUDRoutes(t *testing.T) {
	ok := respond(`{"data":{"id":9,"name":"X","is_active":1}}`)
	srv, reqs := newServer(t, map[string]func(http.ResponseWriter){
		"POST /projects":                  ok,
		"PUT /projects/9":                 ok,
		"DELETE /projects/9":              respond(`{"message":"deleted"}`),
		"GET /project-types":              respond(`{"data":[{"id":1,"name":"Web","is_active":1},{"id":2,"name":"Old","is_active":0}]}`),
		"GET /open/get-project-type-list": respond(`{"data":[{"id":1,"name":"Web","is_active":true}]}`),
		"POST /add-project-type":          ok,
		"POST /update-project-type/9":     ok,
		"POST /add-planning-types":        ok,
		"POST /update-planning-types/9":   ok,
		"DELETE /delete-planning-types/9": respond(`{"message":"deleted"}`),
		"POST /add-new-user":              ok,
		"POST /users/9":                   ok,
		"DELETE /users/9":                 respond(`{"message":"deleted"}`),
		"POST /vendors":                   ok,
		"POST /update-vendor/9":           ok,
		"DELETE /vendors/9":               respond(`{"message":"deleted"}`),
	})
	c := New(Options{BaseURL: srv.URL})
	ctx := context.Background()

	calls := []struct {
		name string
		call func() error
	}{
		{"CreateProject", func() error {
			_, err := c.CreateProject(ctx, model.ProjectInput{Name: "X", Priority: "high", Progress: 10})
			return err
		}},
		{"UpdateProject", func() error { _, err := c.UpdateProject(ctx, "9", model.ProjectInput{Name: "X"}); return err }},
		{"DeleteProject", func() error { return c.DeleteProject(ctx, "9") }},
		{"ListProjectTypes", func() error {
			ts, err := c.ListProjectTypes(ctx, false)
			if err == nil && (len(ts) != 2 || !bool(ts[0].IsActive) || bool(ts[1].IsActive)) {
				t.Errorf("unexpected project types %+v", ts)
			}
			return err
		}},
		{"ListProjectTypes active", func() error { _, err := c.ListProjectTypes(ctx, true); return err }},
		{"AddProjectType", func() error { _, err := c.AddProjectType(ctx, model.TypeInput{Name: "X", IsActive: true}); return err }},
		{"UpdateProjectType", func() error { _, err := c.UpdateProjectType(ctx, "9", model.TypeInput{Name: "X"}); return err }},
		{"AddPlanningType", func() error { _, err := c.AddPlanningType(ctx, model.TypeInput{Name: "X"}); return err }},
		{"UpdatePlanningType", func() error { _, err := c.UpdatePlanningType(ctx, "9", model.TypeInput{Name: "X"}); return err }},
		{"DeletePlanningType", func() error { return c.DeletePlanningType(ctx, "9") }},
		{"AddUser", func() error {
			u, err := c.AddUser(ctx, model.UserInput{Name: "X", Email: "x@example.com", IsActive: 1})
			if err == nil && !bool(u.IsActive) {
				t.Errorf("expected is_active 1 to decode as true")
			}
			return err
		}},
		{"UpdateUser", func() error { _, err := c.UpdateUser(ctx, "9", model.UserInput{Name: "X", Email: "x@example.com"}); return err }},
		{"DeleteUser", func() error { return c.DeleteUser(ctx, "9") }},
		{"AddVendor", func() error { _, err := c.AddVendor(ctx, model.VendorInput{Name: "X", IsActive: true}); return err }},
		{"UpdateVendor", func() error { _, err := c.UpdateVendor(ctx, "9", model.VendorInput{Name: "X"}); return err }},
		{"DeleteVendor", func() error { return c.DeleteVendor(ctx, "9") }},
	}
	for _, tc := range calls {
		if err := tc.call(); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
	}
	if len(*reqs) != len(calls) {
		t.Fatalf("expected %d requests, got %d", len(calls), len(*reqs))
	}

	create := (*reqs)[0].body
	if create["name"] != "X" || create["priority"] != "high" || create["progress"] != float64(10) {
		t.Fatalf("unexpected create body %v", create)
	}
	if _, ok := create["start_date"]; ok {
		t.Fatalf("expected blank dates left out, got %v", create)
	}
	user := (*reqs)[10].body
	if user["is_active"] != float64(1) {
		t.Fatalf("expected numeric is_active, got %v", user)
	}
	if _, ok := user["password"]; ok {
		t.Fatalf("expected empty password left out, got %v", user)
	}
}
