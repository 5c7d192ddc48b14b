package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rfm-dash/internal/store"
)

var testNow = time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)

const sampleCSV = "customer_id,transaction_date,transaction_amount,product_category,payment_method,customer_age,customer_location\n" +
	"C1,2025-10-01,100,Elektronik,Transfer,28,Jakarta\n" +
	"C1,2025-10-02,200,Elektronik,Transfer,28,Jakarta\n" +
	"C2,2025-10-03,50,Makanan,Cash,35,Bandung\n"

func newTestServer(t *testing.T) (*store.Store, http.Handler) {
	t.Helper()
	st := store.New(testNow)
	return st, NewServer(st, "").Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGetDatasetWhenEmpty(t *testing.T) {
	_, h := newTestServer(t)

	for _, path := range []string{"/api/dataset", "/api/dataset/filtered", "/api/export"} {
		if rec := do(t, h, http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s on empty store = %d, want 404", path, rec.Code)
		}
	}
}

func TestUploadThenGetDataset(t *testing.T) {
	st, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/upload", sampleCSV)
	if rec.Code != http.StatusOK {
		t.Fatalf("Upload = %d: %s", rec.Code, rec.Body.String())
	}

	var metrics struct {
		TotalCustomers    int `json:"total_customers"`
		TotalTransactions int `json:"total_transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &metrics); err != nil {
		t.Fatalf("Bad upload response: %v", err)
	}
	if metrics.TotalCustomers != 2 || metrics.TotalTransactions != 3 {
		t.Errorf("Upload metrics = %+v, want 2 customers / 3 transactions", metrics)
	}

	if !st.HasData() {
		t.Error("Upload must load the store")
	}
	if rec := do(t, h, http.MethodGet, "/api/dataset", ""); rec.Code != http.StatusOK {
		t.Errorf("GET dataset after upload = %d", rec.Code)
	}
}

func TestFailedUploadLeavesStoreUntouched(t *testing.T) {
	st, h := newTestServer(t)

	do(t, h, http.MethodPost, "/api/upload", sampleCSV)
	before := st.GetData()

	rec := do(t, h, http.MethodPost, "/api/upload", "customer_id,transaction_amount\n")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Header-only upload = %d, want 422", rec.Code)
	}
	if st.GetData() != before {
		t.Error("Failed upload must not replace the loaded dataset")
	}
}

func TestTimeRangeEndpoints(t *testing.T) {
	st, h := newTestServer(t)

	rec := do(t, h, http.MethodPut, "/api/timerange", `{"range":"7d"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT timerange = %d", rec.Code)
	}
	if st.TimeRange() != "7d" {
		t.Errorf("Store range = %q, want 7d", st.TimeRange())
	}

	rec = do(t, h, http.MethodGet, "/api/timerange", "")
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad timerange response: %v", err)
	}
	if resp["range"] != "7d" {
		t.Errorf("GET timerange = %q, want 7d", resp["range"])
	}

	if rec := do(t, h, http.MethodPut, "/api/timerange", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Empty range = %d, want 400", rec.Code)
	}
}

func TestClearDataset(t *testing.T) {
	st, h := newTestServer(t)
	do(t, h, http.MethodPost, "/api/upload", sampleCSV)

	if rec := do(t, h, http.MethodDelete, "/api/dataset", ""); rec.Code != http.StatusOK {
		t.Fatalf("DELETE dataset = %d", rec.Code)
	}
	if st.HasData() {
		t.Error("Store must be empty after clear")
	}
}

func TestExportServesCSV(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/api/upload", sampleCSV)

	rec := do(t, h, http.MethodGet, "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET export = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "customer_id,transaction_date,") {
		t.Errorf("Export body = %q", rec.Body.String())
	}
}

func TestIndexPage(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/dataset") {
		t.Errorf("Index page missing endpoint listing")
	}
}
