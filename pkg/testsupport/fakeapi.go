package testsupport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-loanform/pkg/loan"
)

// BasePath is where the fake mounts the loans collection.
const BasePath = "/api/loans"

// RecordedRequest is one request seen by the fake backend.
type RecordedRequest struct {
	Method    string
	Path      string
	Body      []byte
	RequestID string
}

// FakeAPI is an in-memory stand-in for the loans backend. It mirrors the
// backend contract: 201 on create with PENDING/today defaults, 404 for
// unknown ids, 204 on delete.
type FakeAPI struct {
	mu       sync.Mutex
	records  map[int64]loan.Record
	nextID   int64
	failures map[string]int
	requests []RecordedRequest
	today    func() time.Time
	server   *httptest.Server
}

// NewFakeAPI starts a fake backend seeded with records and closes it when
// the test ends.
func NewFakeAPI(t testing.TB, seed ...loan.Record) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		records:  make(map[int64]loan.Record),
		failures: make(map[string]int),
		today:    time.Now,
	}
	for _, rec := range seed {
		f.records[rec.ID] = rec
		if rec.ID > f.nextID {
			f.nextID = rec.ID
		}
	}
	f.server = httptest.NewServer(f.Handler())
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the collection endpoint, suitable for client.New.
func (f *FakeAPI) URL() string {
	return f.server.URL + BasePath
}

// Close stops the server early so requests fail at the transport level.
func (f *FakeAPI) Close() {
	f.server.Close()
}

// Fail forces every request for the operation ("list", "get", "create",
// "update", "delete") to answer with status until cleared with status 0.
func (f *FakeAPI) Fail(op string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status == 0 {
		delete(f.failures, op)
		return
	}
	f.failures[op] = status
}

// Requests returns a copy of the requests received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// CountRequests counts requests by method.
func (f *FakeAPI) CountRequests(method string) int {
	count := 0
	for _, req := range f.Requests() {
		if req.Method == method {
			count++
		}
	}
	return count
}

// Records returns the stored records ordered by id.
func (f *FakeAPI) Records() []loan.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked()
}

// Record returns a stored record.
func (f *FakeAPI) Record(id int64) (loan.Record, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	return rec, ok
}

// Handler exposes the routes so callers can mount the fake elsewhere.
func (f *FakeAPI) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+BasePath, f.handle("list", f.list))
	mux.HandleFunc("POST "+BasePath, f.handle("create", f.create))
	mux.HandleFunc("GET "+BasePath+"/{id}", f.handle("get", f.get))
	mux.HandleFunc("PUT "+BasePath+"/{id}", f.handle("update", f.update))
	mux.HandleFunc("DELETE "+BasePath+"/{id}", f.handle("delete", f.remove))
	return mux
}

func (f *FakeAPI) handle(op string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			_ = r.Body.Close()
		}

		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      body,
			RequestID: r.Header.Get("X-Request-ID"),
		})
		status, failing := f.failures[op]
		f.mu.Unlock()

		if failing {
			w.WriteHeader(status)
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next(w, r)
	}
}

func (f *FakeAPI) list(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	records := f.sortedLocked()
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, records)
}

func (f *FakeAPI) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	rec, found := f.records[id]
	f.mu.Unlock()
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	rec, ok := decodeRecord(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if rec.ApplicationDate.IsZero() {
		now := f.today()
		rec.ApplicationDate = loan.NewDate(now.Year(), now.Month(), now.Day())
	}
	if rec.Status == "" {
		rec.Status = loan.StatusPending
	}

	f.mu.Lock()
	f.nextID++
	rec.ID = f.nextID
	f.records[rec.ID] = rec
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func (f *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	rec, ok := decodeRecord(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	if _, found := f.records[id]; !found {
		f.mu.Unlock()
		w.WriteHeader(http.StatusNotFound)
		return
	}
	rec.ID = id
	f.records[id] = rec
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, rec)
}

func (f *FakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	_, found := f.records[id]
	delete(f.records, id)
	f.mu.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) sortedLocked() []loan.Record {
	out := make([]loan.Record, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func decodeRecord(r *http.Request) (loan.Record, bool) {
	var rec loan.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		return loan.Record{}, false
	}
	return rec, true
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
