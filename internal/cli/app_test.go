package cli_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/UnknownOlympus/zynor/internal/cli"
	"github.com/UnknownOlympus/zynor/internal/client/api"
	"github.com/UnknownOlympus/zynor/internal/client/resource"
	"github.com/UnknownOlympus/zynor/internal/credentials"
	"github.com/UnknownOlympus/zynor/internal/health"
	"github.com/UnknownOlympus/zynor/internal/i18n"
	"github.com/UnknownOlympus/zynor/internal/metrics"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const technicianFixture = `{"items":[
	{"id":"t1","first_name":"Ann","last_name":"Lee","email":"ann@x.io","phone":"+380501112233","skills":["fiber","copper"],"is_active":true},
	{"id":"t2","first_name":"Bob","last_name":"Stone","email":"bob@x.io","skills":["copper"],"is_active":false},
	{"id":3,"first_name":"Cid","last_name":"Moss","email":"cid@x.io","skills":["wireless"]}
]}`

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type hit struct {
	Method string
	Path   string
	Body   string
}

// fakeAPI serves routes under /api and records every request.
type fakeAPI struct {
	mu     sync.Mutex
	hits   []hit
	router *mux.Router
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{router: mux.NewRouter()}
	f.router.NotFoundHandler = reply(http.StatusNotFound, `{"detail":"Not Found"}`)
	return f
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.hits = append(f.hits, hit{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	f.mu.Unlock()
	r.Body = io.NopCloser(bytes.NewReader(body))
	f.router.ServeHTTP(w, r)
}

func (f *fakeAPI) Hits(method string) []hit {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []hit
	for _, h := range f.hits {
		if h.Method == method {
			out = append(out, h)
		}
	}
	return out
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

type harness struct {
	api     *fakeAPI
	app     *cli.App
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	store   *credentials.FileStore
	metrics *metrics.Metrics
	deps    cli.Deps
}

func newHarness(t *testing.T, f *fakeAPI, stdin string, tokens credentials.Provider) *harness {
	t.Helper()

	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	client, err := api.NewClient(log, srv.URL, api.WithMetrics(m))
	require.NoError(t, err)

	store := credentials.NewFileStore(log, filepath.Join(t.TempDir(), "credentials.json"))
	if tokens == nil {
		tokens = store
	}

	h := &harness{
		api:     f,
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		store:   store,
		metrics: m,
	}
	h.deps = cli.Deps{
		Log:     log,
		Lang:    i18n.MustLocalizer().For("en"),
		Clients: resource.New(client, log, m),
		Probe:   health.NewProbe(log, health.NewAPIChecker(client), time.Hour, m),
		Tokens:  tokens,
		Store:   store,
		Metrics: m,
		Stdin:   strings.NewReader(stdin),
		Stdout:  h.stdout,
		Stderr:  h.stderr,
		Now:     func() time.Time { return fixedNow },
	}
	h.app = cli.New(h.deps)
	return h
}

func (h *harness) run(t *testing.T, args ...string) int {
	t.Helper()
	return h.app.Run(t.Context(), args)
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeAPI(), "", nil)

	assert.Equal(t, cli.ExitUsage, h.run(t))
	assert.Contains(t, h.stderr.String(), "Usage: zynor")

	h.stderr.Reset()
	assert.Equal(t, cli.ExitUsage, h.run(t, "invoices"))
	assert.Contains(t, h.stderr.String(), "Unknown command: invoices")

	assert.Equal(t, cli.ExitOK, h.run(t, "help"))
	assert.Contains(t, h.stdout.String(), "technicians list|get|create|update|delete")

	h.stderr.Reset()
	assert.Equal(t, cli.ExitUsage, h.run(t, "customers", "archive"))
	assert.Contains(t, h.stderr.String(), "Unknown command: customers archive")
}

func TestCustomers_List(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/customers", reply(http.StatusOK,
		`[{"id":1,"name":"Acme","email":"ops@acme.io"},{"id":2,"name":"Globex","phone":"555-0100"}]`)).
		Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "customers", "list", "-search", "acme"))

	out := h.stdout.String()
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "ops@acme.io")
	assert.NotContains(t, out, "Globex")
	assert.Contains(t, out, "Page 1 of 1 (1 matching)")
}

func TestCustomers_ListNoRecords(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/customers", reply(http.StatusOK, `{"results":[]}`)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "customers", "list"))
	assert.Contains(t, h.stdout.String(), "No records found.")
}

func TestCustomers_CreateValidatesLocally(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	h := newHarness(t, f, "", nil)

	assert.Equal(t, cli.ExitError, h.run(t, "customers", "create", "-name", "  ", "-email", "nope"))
	assert.Contains(t, h.stderr.String(), "Please fix the highlighted fields.")
	assert.Contains(t, h.stderr.String(), "name: Name is required.")
	assert.Contains(t, h.stderr.String(), "email: Enter a valid email address.")
	assert.Empty(t, f.Hits(http.MethodPost))
}

func TestCustomers_CreateSendsNullOptionals(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/customers", reply(http.StatusCreated, `{"item":{"id":7,"name":"Acme"}}`)).
		Methods(http.MethodPost)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "customers", "create", "-name", "Acme"))

	posts := f.Hits(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, "/api/customers", posts[0].Path)
	assert.JSONEq(t, `{"name":"Acme","phone":null,"email":null,"address":null}`, posts[0].Body)
	assert.Contains(t, h.stdout.String(), "Created customer 7.")
}

func TestCustomers_CreateShowsAPIDetail(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/customers", reply(http.StatusConflict, `{"detail":"Email already registered"}`)).
		Methods(http.MethodPost)
	h := newHarness(t, f, "", nil)

	assert.Equal(t, cli.ExitError, h.run(t, "customers", "create", "-name", "Acme", "-email", "a@b.co"))
	assert.Contains(t, h.stderr.String(), "Error: Email already registered")
}

func TestCustomers_UpdateKeepsUnsetFields(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/customers/3",
		reply(http.StatusOK, `{"id":3,"name":"Acme","email":"ops@acme.io","phone":"555"}`)).Methods(http.MethodGet)
	f.router.Handle("/api/customers/3", reply(http.StatusOK, `{"id":3,"name":"Acme"}`)).Methods(http.MethodPut)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "customers", "update", "3", "-email", ""))

	puts := f.Hits(http.MethodPut)
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"name":"Acme","email":null,"phone":"555","address":null}`, puts[0].Body)
	assert.Contains(t, h.stdout.String(), "Updated customer 3.")
}

func TestCustomers_GetNotFound(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeAPI(), "", nil)

	assert.Equal(t, cli.ExitError, h.run(t, "customers", "get", "99"))
	assert.Contains(t, h.stderr.String(), "Record not found.")
}

func TestCustomers_GetRequiresID(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeAPI(), "", nil)

	assert.Equal(t, cli.ExitUsage, h.run(t, "customers", "get"))
	assert.Contains(t, h.stderr.String(), "An id is required.")
}

func TestCustomers_Delete(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		stdin       string
		args        []string
		wantDeletes int
		wantOut     string
	}{
		{"declined", "n\n", []string{"customers", "delete", "4"}, 0, "Cancelled."},
		{"no answer", "", []string{"customers", "delete", "4"}, 0, "Cancelled."},
		{"confirmed", "y\n", []string{"customers", "delete", "4"}, 1, "Deleted customer 4."},
		{"yes flag", "", []string{"customers", "delete", "-yes", "4"}, 1, "Deleted customer 4."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFakeAPI()
			f.router.Handle("/api/customers/4", reply(http.StatusNoContent, "")).Methods(http.MethodDelete)
			h := newHarness(t, f, tt.stdin, nil)

			require.Equal(t, cli.ExitOK, h.run(t, tt.args...))
			assert.Len(t, f.Hits(http.MethodDelete), tt.wantDeletes)
			assert.Contains(t, h.stdout.String(), tt.wantOut)
		})
	}
}

func TestJobs_Create(t *testing.T) {
	t.Parallel()

	t.Run("invalid customer id", func(t *testing.T) {
		t.Parallel()

		f := newFakeAPI()
		h := newHarness(t, f, "", nil)

		assert.Equal(t, cli.ExitError, h.run(t, "jobs", "create", "-title", "Splice", "-customer", "0"))
		assert.Contains(t, h.stderr.String(), "Customer ID must be a valid positive number.")
		assert.Empty(t, f.Hits(http.MethodPost))
	})

	t.Run("status defaults to NEW", func(t *testing.T) {
		t.Parallel()

		f := newFakeAPI()
		f.router.Handle("/api/jobs", reply(http.StatusCreated, `{"id":12,"title":"Splice","customer_id":5}`)).
			Methods(http.MethodPost)
		h := newHarness(t, f, "", nil)

		require.Equal(t, cli.ExitOK, h.run(t, "jobs", "create", "-title", "Splice", "-customer", "5",
			"-start", "2025-06-02T09:00:00Z"))

		posts := f.Hits(http.MethodPost)
		require.Len(t, posts, 1)
		assert.JSONEq(t, `{"title":"Splice","description":null,"status":"NEW",
			"scheduled_start_at":"2025-06-02T09:00:00Z","scheduled_end_at":null,
			"customer_id":5,"technician_id":null}`, posts[0].Body)
		assert.Contains(t, h.stdout.String(), "Created job 12.")
	})
}

func TestJobs_UpdateClearsTechnician(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/jobs/12", reply(http.StatusOK,
		`{"id":12,"title":"Splice","status":"ASSIGNED","customer_id":5,"technician_id":"t1"}`)).Methods(http.MethodGet)
	f.router.Handle("/api/jobs/12", reply(http.StatusOK, `{"id":12}`)).Methods(http.MethodPut)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "jobs", "update", "12", "-technician", ""))

	puts := f.Hits(http.MethodPut)
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"title":"Splice","description":null,"status":"ASSIGNED",
		"scheduled_start_at":null,"scheduled_end_at":null,"customer_id":5,"technician_id":null}`, puts[0].Body)
}

func TestTechnicians_ListFilters(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusOK, technicianFixture)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "list", "-skill", "copper", "-sort", "name", "-desc"))

	out := h.stdout.String()
	assert.Less(t, strings.Index(out, "Bob Stone"), strings.Index(out, "Ann Lee"))
	assert.NotContains(t, out, "Cid Moss")
	assert.Contains(t, out, "Page 1 of 1 (2 matching)")
}

func TestTechnicians_ListRejectsBadFlags(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusOK, technicianFixture)).Methods(http.MethodGet)

	for _, args := range [][]string{
		{"technicians", "list", "-page-size", "7"},
		{"technicians", "list", "-status", "retired"},
		{"technicians", "list", "-sort", "salary"},
		{"technicians", "list", "-export", "pdf"},
		{"technicians", "list", "-bogus"},
	} {
		h := newHarness(t, f, "", nil)
		assert.Equal(t, cli.ExitUsage, h.run(t, args...), args)
	}
}

func TestTechnicians_SkillOptions(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusOK, technicianFixture)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "list", "-skills"))
	assert.Equal(t, "copper\nfiber\nwireless\n", h.stdout.String())
}

func TestTechnicians_ExportCSV(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusOK, technicianFixture)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	out := filepath.Join(t.TempDir(), "technicians.csv")
	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "list", "-status", "inactive", "-export", "csv", "-out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, `"Name","Email","Phone","Skill","Active"`+"\n"+
		`"Bob Stone","bob@x.io","","copper","Inactive"`, string(data))
	assert.Contains(t, h.stdout.String(), "Exported 1 rows to "+out+".")
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.Exports.WithLabelValues("csv")), 0)
}

func TestTechnicians_ExportToStdout(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusOK, technicianFixture)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "list", "-search", "cid", "-export", "csv", "-out", "-"))
	assert.Equal(t, `"Name","Email","Phone","Skill","Active"`+"\n"+
		`"Cid Moss","cid@x.io","","wireless","Active"`, h.stdout.String())
}

func TestTechnicians_ExportNothing(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusOK, technicianFixture)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	out := filepath.Join(t.TempDir(), "none.csv")
	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "list", "-search", "zed", "-export", "csv", "-out", out))

	assert.Contains(t, h.stdout.String(), "Nothing to export.")
	assert.NoFileExists(t, out)
	assert.Zero(t, testutil.ToFloat64(h.metrics.Exports.WithLabelValues("csv")))
}

func TestTechnicians_ExportXLSX(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusOK, technicianFixture)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	out := filepath.Join(t.TempDir(), "technicians.xlsx")
	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "list", "-export", "xlsx", "-out", out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.InDelta(t, 1, testutil.ToFloat64(h.metrics.Exports.WithLabelValues("xlsx")), 0)
}

func TestCustomers_XLSXIsTechnicianOnly(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/customers", reply(http.StatusOK, `[{"id":1,"name":"Acme"}]`)).Methods(http.MethodGet)
	h := newHarness(t, f, "", nil)

	assert.Equal(t, cli.ExitUsage, h.run(t, "customers", "list", "-export", "xlsx"))
	assert.Contains(t, h.stderr.String(), "Unknown export format: xlsx")
}

func TestTechnicians_CreateAndUpdate(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/technicians", reply(http.StatusCreated, `{"id":"t9"}`)).Methods(http.MethodPost)
	f.router.Handle("/api/technicians/t1", reply(http.StatusOK,
		`{"id":"t1","first_name":"Ann","last_name":"Lee","email":"ann@x.io","skills":["fiber"],"is_active":true}`)).
		Methods(http.MethodGet)
	f.router.Handle("/api/technicians/t1", reply(http.StatusOK, `{"id":"t1"}`)).Methods(http.MethodPut)
	h := newHarness(t, f, "", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "create",
		"-first-name", "Dan", "-last-name", "Ray", "-email", "dan@x.io", "-skills", "fiber, ,splicing"))
	posts := f.Hits(http.MethodPost)
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{"first_name":"Dan","last_name":"Ray","email":"dan@x.io",
		"skills":["fiber","splicing"],"is_active":true}`, posts[0].Body)
	assert.Contains(t, h.stdout.String(), "Created technician t9.")

	require.Equal(t, cli.ExitOK, h.run(t, "technicians", "update", "t1", "-active=false"))
	puts := f.Hits(http.MethodPut)
	require.Len(t, puts, 1)
	assert.JSONEq(t, `{"first_name":"Ann","last_name":"Lee","email":"ann@x.io",
		"skills":["fiber"],"is_active":false}`, puts[0].Body)
}

func TestTechnicians_CreateRequiresSkills(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	h := newHarness(t, f, "", nil)

	assert.Equal(t, cli.ExitError, h.run(t, "technicians", "create",
		"-first-name", "Dan", "-last-name", "Ray", "-email", "dan@x.io", "-phone", "12-34"))
	assert.Contains(t, h.stderr.String(), "Please add at least one skill.")
	assert.Contains(t, h.stderr.String(), "Phone number looks too short.")
	assert.Empty(t, f.Hits(http.MethodPost))
}

func TestHealth_Once(t *testing.T) {
	t.Parallel()

	t.Run("up", func(t *testing.T) {
		t.Parallel()

		f := newFakeAPI()
		f.router.Handle("/health", reply(http.StatusOK, `{"status":"ok"}`))
		h := newHarness(t, f, "", nil)

		assert.Equal(t, cli.ExitOK, h.run(t, "health"))
		assert.Equal(t, "Backend: API online\n", h.stdout.String())
	})

	t.Run("down", func(t *testing.T) {
		t.Parallel()

		f := newFakeAPI()
		f.router.Handle("/health", reply(http.StatusServiceUnavailable, `{}`))
		h := newHarness(t, f, "", nil)

		assert.Equal(t, cli.ExitError, h.run(t, "health"))
		assert.Equal(t, "Backend: API offline\n", h.stdout.String())
	})
}

func TestHealth_Watch(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/health", reply(http.StatusOK, `{}`))
	h := newHarness(t, f, "", nil)

	observed := make(chan health.Status, 1)
	monitored := make(chan struct{})
	h.deps.Watchers = []health.Observer{func(_, next health.Status) { observed <- next }}
	h.deps.Monitor = func(ctx context.Context) {
		<-ctx.Done()
		close(monitored)
	}
	app := cli.New(h.deps)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan int)
	go func() { done <- app.Run(ctx, []string{"health", "-watch"}) }()

	select {
	case status := <-observed:
		assert.Equal(t, health.StatusUp, status)
	case <-time.After(5 * time.Second):
		t.Fatal("no status change observed")
	}
	cancel()

	assert.Equal(t, cli.ExitOK, <-done)
	<-monitored
	assert.Equal(t, "12:00:00 Backend: API online\n", h.stdout.String())
}

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

type fixedToken string

func (f fixedToken) Token(context.Context) (string, bool) {
	return string(f), f != ""
}

func TestToken_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    credentials.Provider
		wantCode int
		wantOut  []string
	}{
		{
			name: "valid",
			token: fixedToken(signedToken(t, jwt.RegisteredClaims{
				Subject:   "tech-1",
				ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
			})),
			wantCode: cli.ExitOK,
			wantOut:  []string{"Subject: tech-1", "Expires: 2025-06-01T13:00:00Z"},
		},
		{
			name: "expired",
			token: fixedToken(signedToken(t, jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(fixedNow.Add(-time.Minute)),
			})),
			wantCode: cli.ExitError,
			wantOut:  []string{"The token expired at 2025-06-01T11:59:00Z."},
		},
		{
			name:     "no expiry",
			token:    fixedToken(signedToken(t, jwt.RegisteredClaims{Subject: "svc"})),
			wantCode: cli.ExitOK,
			wantOut:  []string{"Subject: svc", "The token has no expiry."},
		},
		{
			name:     "opaque",
			token:    fixedToken("not-a-jwt"),
			wantCode: cli.ExitOK,
			wantOut:  []string{"A token is stored but it is not a JWT."},
		},
		{
			name:     "missing",
			token:    fixedToken(""),
			wantCode: cli.ExitError,
			wantOut:  []string{"No token stored."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, newFakeAPI(), "", tt.token)

			assert.Equal(t, tt.wantCode, h.run(t, "token", "status"))
			for _, want := range tt.wantOut {
				assert.Contains(t, h.stdout.String(), want)
			}
		})
	}
}

func TestToken_SetWritesStore(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeAPI(), "  stored-token \n", nil)

	require.Equal(t, cli.ExitOK, h.run(t, "token", "set"))
	assert.Contains(t, h.stdout.String(), "Enter API token: ")
	assert.Contains(t, h.stdout.String(), "Token saved to "+h.store.Path()+".")

	token, ok := h.store.Token(t.Context())
	require.True(t, ok)
	assert.Equal(t, "stored-token", token)
}

func TestToken_SetRejectsEmpty(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeAPI(), "\n", nil)

	assert.Equal(t, cli.ExitError, h.run(t, "token", "set"))
	assert.Contains(t, h.stderr.String(), "token is empty")
}

func TestToken_Clear(t *testing.T) {
	t.Parallel()

	h := newHarness(t, newFakeAPI(), "", nil)
	require.NoError(t, h.store.Save("stale"))

	require.Equal(t, cli.ExitOK, h.run(t, "token", "clear"))
	assert.Contains(t, h.stdout.String(), "Token removed from "+h.store.Path()+".")

	_, ok := h.store.Token(t.Context())
	assert.False(t, ok)

	h.stdout.Reset()
	assert.Equal(t, cli.ExitError, h.run(t, "token", "status"))
	assert.Contains(t, h.stdout.String(), "No token stored.")

	// nothing stored is fine
	assert.Equal(t, cli.ExitOK, h.run(t, "token", "clear"))
}

func TestRun_UnauthorizedHintsAtToken(t *testing.T) {
	t.Parallel()

	f := newFakeAPI()
	f.router.Handle("/api/customers", reply(http.StatusUnauthorized, `{"detail":"Not authenticated"}`))
	h := newHarness(t, f, "", nil)

	assert.Equal(t, cli.ExitError, h.run(t, "customers", "list"))
	assert.Contains(t, h.stderr.String(), "Error: Not authenticated\n")
	assert.Contains(t, h.stderr.String(), "zynor token set")
}

func TestToken_StoredTokenIsSent(t *testing.T) {
	t.Parallel()

	var auth string
	f := newFakeAPI()
	f.router.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reply(http.StatusOK, `[]`)(w, r)
	})

	srv := httptest.NewServer(f)
	defer srv.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := credentials.NewFileStore(log, filepath.Join(t.TempDir(), "credentials.json"))
	require.NoError(t, store.Save("abc"))

	client, err := api.NewClient(log, srv.URL, api.WithCredentials(store))
	require.NoError(t, err)

	app := cli.New(cli.Deps{
		Log:     log,
		Lang:    i18n.MustLocalizer().For("en"),
		Clients: resource.New(client, log, nil),
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	})

	require.Equal(t, cli.ExitOK, app.Run(t.Context(), []string{"customers", "list"}))
	assert.Equal(t, "Bearer abc", auth)
}
