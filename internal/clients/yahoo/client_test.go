package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func chartBody(timestamps []int64, closes []string) string {
	ts := ""
	for i, v := range timestamps {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", v)
	}
	cl := ""
	for i, v := range closes {
		if i > 0 {
			cl += ","
		}
		cl += v
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`, ts, cl)
}

func TestFetchDailyClosesParsesAndSkipsNulls(t *testing.T) {
	// Bars arrive stamped at market time; the client should normalize to
	// midnight UTC and drop the null holiday bar.
	bar := func(y int, m time.Month, d int) int64 {
		return time.Date(y, m, d, 14, 30, 0, 0, time.UTC).Unix()
	}
	timestamps := []int64{
		bar(2024, time.January, 2),
		bar(2024, time.January, 3),
		bar(2024, time.January, 4),
	}

	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartBody(timestamps, []string{"5.1", "null", "5.3"})))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC)

	points, err := client.FetchDailyCloses(context.Background(), "USDBRL=X", from, to)
	if err != nil {
		t.Fatalf("FetchDailyCloses returned error: %v", err)
	}

	if gotPath != "/v8/finance/chart/USDBRL=X" {
		t.Errorf("request path = %q, want /v8/finance/chart/USDBRL=X", gotPath)
	}
	if got := gotQuery.Get("interval"); got != "1d" {
		t.Errorf("interval = %q, want 1d", got)
	}
	if gotQuery.Get("period1") == "" || gotQuery.Get("period2") == "" {
		t.Error("expected period1 and period2 to be set")
	}

	if len(points) != 2 {
		t.Fatalf("expected 2 points after skipping null close, got %d", len(points))
	}
	wantFirst := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	if !points[0].Date.Equal(wantFirst) {
		t.Errorf("first date = %v, want %v (midnight UTC)", points[0].Date, wantFirst)
	}
	if points[0].Value != 5.1 {
		t.Errorf("first close = %v, want 5.1", points[0].Value)
	}
	wantSecond := time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC)
	if !points[1].Date.Equal(wantSecond) {
		t.Errorf("second date = %v, want %v", points[1].Date, wantSecond)
	}
	if points[1].Value != 5.3 {
		t.Errorf("second close = %v, want 5.3", points[1].Value)
	}
}

func TestFetchDailyClosesSurfacesChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.FetchDailyCloses(context.Background(), "BOGUS", time.Now().AddDate(0, -1, 0), time.Now())
	if err == nil {
		t.Fatal("expected error for chart error response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Message != "No data found, symbol may be delisted" {
		t.Errorf("message = %q, want the chart error description", apiErr.Message)
	}
}

func TestFetchDailyClosesEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.FetchDailyCloses(context.Background(), "^SP500TR", time.Now().AddDate(0, -1, 0), time.Now())
	if err == nil {
		t.Fatal("expected error for empty result set")
	}
}
