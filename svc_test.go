package walacor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/walacor/walacor-go/config"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/relays"
)

// ---------- fakes ----------

type fakeServer struct {
	*httptest.Server
	logins   atomic.Int64
	requests atomic.Int64
	lastUser atomic.Value
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			fs.logins.Add(1)
			body, _ := io.ReadAll(r.Body)
			fs.lastUser.Store(string(body))
			_, _ = io.WriteString(w, `{"api_token":"tok"}`)
			return
		}
		fs.requests.Add(1)
		_, _ = io.WriteString(w, `{"success":true,"data":[1,2,3]}`)
	}))
	t.Cleanup(fs.Close)
	return fs
}

type failingStore struct{}

func (failingStore) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string, metadata map[string]string) error {
	return errors.New("put disabled")
}

func (failingStore) GetObject(ctx context.Context, bucket, key string) ([]byte, map[string]string, error) {
	return nil, nil, errors.New("get disabled")
}

// ---------- helpers ----------

func newTestService(t *testing.T, server string, opts ...Option) *Service {
	t.Helper()
	cfg := config.New(server, "alice", "secret").WithRelay(relays.NewNopRelay())
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestService_ZeroValue_NotInitialized(t *testing.T) {
	t.Parallel()

	var s Service
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["Auth"] = s.Auth()
	_, checks["Schema"] = s.Schema()
	_, checks["Data"] = s.Data()
	_, checks["Files"] = s.Files()
	_, checks["State"] = s.State()
	_, checks["Get"] = s.Get(ctx, "schemas")
	checks["ChangeServer"] = s.ChangeServer("http://x")
	checks["Hydrate"] = s.Hydrate(ctx)

	for name, err := range checks {
		if !errors.Is(err, dto.ErrNotInitialized) {
			t.Fatalf("%s err=%v want ErrNotInitialized", name, err)
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	cfg := config.New("not a url", "", "").WithRelay(relays.NewNopRelay())
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestService_CachesServices_Golden(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t)
	s := newTestService(t, fs.URL)

	d1, err := s.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	d2, _ := s.Data()
	if d1 != d2 {
		t.Fatalf("Data() not cached")
	}
	f1, _ := s.Files()
	f2, _ := s.Files()
	if f1 != f2 {
		t.Fatalf("Files() not cached")
	}
	if fs.logins.Load() != 0 {
		t.Fatalf("setup must not log in, logins=%d", fs.logins.Load())
	}
}

func TestService_ChangeServer_Rebuilds(t *testing.T) {
	t.Parallel()

	first := newFakeServer(t)
	second := newFakeServer(t)
	s := newTestService(t, first.URL)
	ctx := context.Background()

	if err := s.Hydrate(ctx); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	before, _ := s.Schema()

	if err := s.ChangeServer(second.URL); err != nil {
		t.Fatalf("ChangeServer: %v", err)
	}
	after, _ := s.Schema()
	if before == after {
		t.Fatalf("cached schema service survived ChangeServer")
	}
	st, _ := s.State()
	if st.Authenticated {
		t.Fatalf("session survived ChangeServer")
	}
	if st.BaseURL != second.URL {
		t.Fatalf("BaseURL=%q want %q", st.BaseURL, second.URL)
	}

	if _, err := s.Get(ctx, "schemas/envelopeTypes"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if second.logins.Load() != 1 || second.requests.Load() != 1 {
		t.Fatalf("second server logins=%d requests=%d", second.logins.Load(), second.requests.Load())
	}
	if first.requests.Load() != 0 {
		t.Fatalf("first server still used")
	}
}

func TestService_ChangeCred(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t)
	s := newTestService(t, fs.URL)
	ctx := context.Background()

	if err := s.ChangeCred("bob", "pw2"); err != nil {
		t.Fatalf("ChangeCred: %v", err)
	}
	if err := s.Hydrate(ctx); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}
	if got := fs.lastUser.Load().(string); got != `{"userName":"bob","password":"pw2"}` {
		t.Fatalf("login body=%s", got)
	}

	if err := s.ChangeAll("::bad", "bob", "pw2"); err == nil {
		t.Fatalf("expected validation error")
	}
	st, _ := s.State()
	if st.BaseURL != fs.URL || !st.Authenticated {
		t.Fatalf("failed ChangeAll must keep the previous setup, state=%+v", st)
	}
}

func TestService_Metrics(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t)
	reg := prometheus.NewRegistry()
	s := newTestService(t, fs.URL, WithMetrics(reg))

	if _, err := s.Post(context.Background(), "query/get", map[string]any{}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	n, err := testutil.GatherAndCount(reg, "walacor_sdk_http_requests_total", "walacor_sdk_auth_logins_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Fatalf("series=%d want 2", n)
	}
}

func TestService_WithArchive(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t)
	s := newTestService(t, fs.URL, WithArchive(failingStore{}))
	files, err := s.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	_, err = files.VerifyFromS3(context.Background(), "b", "k")
	if err == nil {
		t.Fatalf("expected store error")
	}
	var fe *dto.FileRequestError
	if !errors.As(err, &fe) {
		t.Fatalf("err=%T want *dto.FileRequestError", err)
	}
	if fe.Err.Error() != "get disabled" {
		t.Fatalf("archive store not wired, err=%v", err)
	}
}

func TestService_Request_LeavesCallerConfig(t *testing.T) {
	t.Parallel()

	fs := newFakeServer(t)
	s := newTestService(t, fs.URL)

	req := dto.NewRequestConfig(http.MethodGet, "schemas").WithHeader("X-Trace", "1")
	resp, err := s.Request(context.Background(), req)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if req.TaskName != "" {
		t.Fatalf("TaskName=%q want empty", req.TaskName)
	}
	if len(req.Headers) != 1 || req.Headers["X-Trace"] != "1" {
		t.Fatalf("headers=%v", req.Headers)
	}
}
