package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/crdb/pkg/cache"
	"github.com/matzehuels/crdb/pkg/crdb"
	"github.com/matzehuels/crdb/pkg/errors"
)

const dataLine = "B/C %s EKN 1 0.9 1.1 0.3 0.01 0.01 0.02 0.02 2016PhRvL 500 1 - 0\n"

// upstream fakes the CRDB REST endpoint.
func upstream(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("num") {
		case "Foobar":
			fmt.Fprint(w, "Quantity Foobar not found")
		case "Slow":
			<-r.Context().Done()
		case "Broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			fmt.Fprintf(w, dataLine, "AMS02(2011)")
			fmt.Fprintf(w, dataLine, "PAMELA(2010)")
			fmt.Fprintf(w, dataLine, "AMS02(2015)")
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newAPI(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	up := upstream(t, &calls)
	client := crdb.NewClient(cache.NewMemoryCache(),
		crdb.WithServerURL(up.URL),
		crdb.WithTimeout(200*time.Millisecond),
		crdb.WithLogger(log.New(io.Discard)),
	)
	api := httptest.NewServer(NewRouter(client, log.New(io.Discard)))
	t.Cleanup(api.Close)
	return api, &calls
}

func get(t *testing.T, api *httptest.Server, path string, q url.Values) (*http.Response, []byte) {
	t.Helper()
	u := api.URL + path
	if q != nil {
		u += "?" + q.Encode()
	}
	resp, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	api, _ := newAPI(t)
	resp, body := get(t, api, "/healthz", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("GET /healthz = %d %s", resp.StatusCode, body)
	}
	if _, err := uuid.Parse(resp.Header.Get(HeaderRequestID)); err != nil {
		t.Errorf("X-Request-ID = %q, want a UUID", resp.Header.Get(HeaderRequestID))
	}
}

func TestRequestIDReused(t *testing.T) {
	api, _ := newAPI(t)
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, api.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != id {
		t.Errorf("X-Request-ID = %q, want %q", got, id)
	}

	req.Header.Set(HeaderRequestID, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got == "not-a-uuid" {
		t.Error("malformed request ID should be replaced")
	}
}

func TestURL(t *testing.T) {
	api, calls := newAPI(t)
	resp, body := get(t, api, "/v1/url", url.Values{"num": {"e+"}, "combo_level": {"0"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out map[string]string
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out["url"], "/rest.php?num=e%2B&energy_type=EK&combo_level=0") {
		t.Errorf("url = %q", out["url"])
	}
	if calls.Load() != 0 {
		t.Error("/v1/url should not contact the server")
	}
}

func TestQuery(t *testing.T) {
	api, calls := newAPI(t)
	resp, body := get(t, api, "/v1/query", url.Values{"num": {"B"}, "den": {"C"}, "energy_type": {"ekn"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}

	var doc struct {
		URL  string            `json:"url"`
		Rows []crdb.DataRecord `json:"rows"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Rows) != 3 || doc.Rows[1].SubExp != "PAMELA(2010)" {
		t.Errorf("rows = %+v", doc.Rows)
	}
	if !strings.Contains(doc.URL, "num=B&den=C&energy_type=EKN") {
		t.Errorf("url = %q", doc.URL)
	}

	get(t, api, "/v1/query", url.Values{"num": {"B"}, "den": {"C"}, "energy_type": {"ekn"}})
	if calls.Load() != 1 {
		t.Errorf("upstream called %d times, want 1", calls.Load())
	}
}

func TestQueryCSV(t *testing.T) {
	api, _ := newAPI(t)
	resp, body := get(t, api, "/v1/query", url.Values{"num": {"H"}, "output": {"csv"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(string(body), "# quantity,") {
		t.Errorf("body = %q", body)
	}
}

func TestExperiments(t *testing.T) {
	api, _ := newAPI(t)
	resp, body := get(t, api, "/v1/experiments", url.Values{"num": {"H"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Experiments []experiment `json:"experiments"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	want := []experiment{{"AMS02", 2}, {"PAMELA", 1}}
	if fmt.Sprint(out.Experiments) != fmt.Sprint(want) {
		t.Errorf("experiments = %v, want %v", out.Experiments, want)
	}
}

func TestQuantities(t *testing.T) {
	api, _ := newAPI(t)
	_, body := get(t, api, "/v1/quantities", url.Values{"filter": {"bar"}})
	var out struct {
		Quantities []string `json:"quantities"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Quantities) == 0 {
		t.Error("expected antinuclei codes")
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		query  url.Values
		status int
		code   errors.Code
	}{
		{"missing num", "/v1/query", url.Values{}, http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"bad energy type", "/v1/url", url.Values{"num": {"H"}, "energy_type": {"GeV"}}, http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"non-numeric level", "/v1/query", url.Values{"num": {"H"}, "combo_level": {"x"}}, http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"non-numeric flux", "/v1/query", url.Values{"num": {"H"}, "flux_rescaling": {"x"}}, http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"infinite energy start", "/v1/url", url.Values{"num": {"H"}, "energy_start": {"Inf"}}, http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"bad output", "/v1/query", url.Values{"num": {"H"}, "output": {"xml"}}, http.StatusBadRequest, errors.ErrCodeInvalidParameter},
		{"server message", "/v1/query", url.Values{"num": {"Foobar"}}, http.StatusUnprocessableEntity, errors.ErrCodeQueryError},
		{"timeout", "/v1/query", url.Values{"num": {"Slow"}}, http.StatusGatewayTimeout, errors.ErrCodeTimeout},
		{"upstream 500", "/v1/experiments", url.Values{"num": {"Broken"}}, http.StatusBadGateway, errors.ErrCodeNetwork},
	}

	api, _ := newAPI(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, api, tt.path, tt.query)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.status, body)
			}
			var out struct {
				Error apiError `json:"error"`
			}
			if err := json.Unmarshal(body, &out); err != nil {
				t.Fatalf("decode %s: %v", body, err)
			}
			if out.Error.Code != tt.code {
				t.Errorf("code = %q, want %q", out.Error.Code, tt.code)
			}
			if out.Error.RequestID != resp.Header.Get(HeaderRequestID) {
				t.Errorf("request_id = %q, header %q", out.Error.RequestID, resp.Header.Get(HeaderRequestID))
			}
		})
	}
}

func TestServerMessagePassedThrough(t *testing.T) {
	api, _ := newAPI(t)
	_, body := get(t, api, "/v1/query", url.Values{"num": {"Foobar"}})
	if !strings.Contains(string(body), "Quantity Foobar not found") {
		t.Errorf("body = %s", body)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidParameter, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeQueryError, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{errors.New(errors.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{errors.New(errors.ErrCodeParseError, "x"), http.StatusBadGateway},
		{errors.New(errors.ErrCodeNotFound, "x"), http.StatusBadGateway},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParamsFromQuery(t *testing.T) {
	p, err := paramsFromQuery(url.Values{
		"num":                  {"B"},
		"den":                  {"C"},
		"combo_level":          {"2"},
		"energy_convert_level": {"0"},
		"flux_rescaling":       {"2.7e-1"},
		"time_series":          {"all"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := crdb.DefaultParameters("B")
	want.ServerURL = ""
	want.Den = "C"
	want.ComboLevel = 2
	want.EnergyConvertLevel = 0
	want.FluxRescaling = 0.27
	want.TimeSeries = "all"
	if p != want {
		t.Errorf("paramsFromQuery() = %+v, want %+v", p, want)
	}
}
