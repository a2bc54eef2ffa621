// LodgeLink - Property Management System Integration Bridge
// Copyright 2026 LodgeLink Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/lodgelink/lodgelink

package pms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/lodgelink/lodgelink/internal/config"
)

func testClientConfig(url string) config.PMSConfig {
	return config.PMSConfig{
		URL:         url,
		SiteID:      "site-42",
		Token:       "secret-token",
		Timeout:     5 * time.Second,
		PingTimeout: 2 * time.Second,
		RateLimit:   1000,
		RateBurst:   1000,
		PageSize:    200,
	}
}

func checkError(t *testing.T, err error, wantErr bool) {
	t.Helper()
	if wantErr && err == nil {
		t.Fatal("expected error, got nil")
	}
	if !wantErr && err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClientSendsAuthAndSiteID(t *testing.T) {
	var gotToken, gotSiteID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-PMS-Token")
		gotSiteID = r.URL.Query().Get("siteId")
		fmt.Fprint(w, `<PMSResponse status="ok"></PMSResponse>`)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if gotToken != "secret-token" {
		t.Errorf("expected token header %q, got %q", "secret-token", gotToken)
	}
	if gotSiteID != "site-42" {
		t.Errorf("expected siteId %q, got %q", "site-42", gotSiteID)
	}
}

func TestClientErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name          string
		handler       http.HandlerFunc
		wantUnavail   bool
		wantMalformed bool
	}{
		{
			name: "non-200 status is unavailable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantUnavail: true,
		},
		{
			name: "auth rejection is unavailable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantUnavail: true,
		},
		{
			name: "envelope error status is unavailable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<PMSResponse status="error"><Message>site suspended</Message></PMSResponse>`)
			},
			wantUnavail: true,
		},
		{
			name: "invalid xml is malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"this": "is json"}`)
			},
			wantMalformed: true,
		},
		{
			name: "unknown envelope status is malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<PMSResponse status="maybe"></PMSResponse>`)
			},
			wantMalformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(testClientConfig(server.URL))
			err := client.Ping(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.Is(err, ErrPMSUnavailable); got != tt.wantUnavail {
				t.Errorf("errors.Is(err, ErrPMSUnavailable) = %v, want %v (err: %v)", got, tt.wantUnavail, err)
			}
			if got := IsMalformed(err); got != tt.wantMalformed {
				t.Errorf("IsMalformed(err) = %v, want %v (err: %v)", got, tt.wantMalformed, err)
			}
		})
	}
}

func TestClientUnreachableHostIsUnavailable(t *testing.T) {
	cfg := testClientConfig("http://127.0.0.1:1")
	cfg.Timeout = 500 * time.Millisecond
	cfg.PingTimeout = 500 * time.Millisecond
	client := NewClient(cfg)

	err := client.Ping(context.Background())
	if !errors.Is(err, ErrPMSUnavailable) {
		t.Fatalf("expected ErrPMSUnavailable, got %v", err)
	}
}

func TestGetBookingsPagination(t *testing.T) {
	// Three full pages of 2 then a short page of 1.
	pages := [][]string{
		{"b1", "b2"},
		{"b3", "b4"},
		{"b5"},
	}
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 || page > len(pages) {
			fmt.Fprint(w, `<PMSResponse status="ok"><Bookings></Bookings></PMSResponse>`)
			return
		}
		fmt.Fprint(w, `<PMSResponse status="ok"><Bookings>`)
		for _, id := range pages[page-1] {
			fmt.Fprintf(w, `<Booking><BookingId>%s</BookingId><GuestName>Guest</GuestName><CheckIn>2026-03-01</CheckIn><CheckOut>2026-03-04</CheckOut><Amount>120.50</Amount><Status>Confirmed</Status></Booking>`, id)
		}
		fmt.Fprint(w, `</Bookings></PMSResponse>`)
	}))
	defer server.Close()

	cfg := testClientConfig(server.URL)
	cfg.PageSize = 2
	client := NewClient(cfg)

	bookings, err := client.GetBookings(context.Background())
	checkError(t, err, false)
	if len(bookings) != 5 {
		t.Fatalf("expected 5 bookings, got %d", len(bookings))
	}
	if requests != 3 {
		t.Errorf("expected 3 page requests, got %d", requests)
	}
	if bookings[0].ID != "b1" || bookings[4].ID != "b5" {
		t.Errorf("unexpected booking order: first=%s last=%s", bookings[0].ID, bookings[4].ID)
	}
	if bookings[0].Status != "confirmed" {
		t.Errorf("expected lowercased status, got %q", bookings[0].Status)
	}
}

func TestGetBookingsMissingIDIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<PMSResponse status="ok"><Bookings><Booking><BookingId>  </BookingId><CheckIn>2026-03-01</CheckIn><CheckOut>2026-03-02</CheckOut></Booking></Bookings></PMSResponse>`)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	_, err := client.GetBookings(context.Background())
	if !IsMalformed(err) {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestGetGuestsDecodesRoster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<PMSResponse status="ok"><Guests><Guest><GuestId>g1</GuestId><Name> Ada Lovelace </Name><Email>ada@example.net</Email><Phone>555-0101</Phone><TotalBookings>4</TotalBookings><TotalSpent>812.40</TotalSpent></Guest></Guests></PMSResponse>`)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	guests, err := client.GetGuests(context.Background())
	checkError(t, err, false)
	if len(guests) != 1 {
		t.Fatalf("expected 1 guest, got %d", len(guests))
	}
	g := guests[0]
	if g.Name != "Ada Lovelace" {
		t.Errorf("expected trimmed name, got %q", g.Name)
	}
	if g.TotalBookings != 4 || g.TotalSpent != 812.40 {
		t.Errorf("unexpected totals: bookings=%d spent=%.2f", g.TotalBookings, g.TotalSpent)
	}
}

func TestParsePMSTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		want    time.Time
	}{
		{
			name:  "rfc3339",
			value: "2026-03-01T14:00:00Z",
			want:  time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "datetime without zone",
			value: "2026-03-01T14:00:00",
			want:  time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC),
		},
		{
			name:  "bare date",
			value: "2026-03-01",
			want:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			value:   "next tuesday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePMSTime("/api/v1/bookings", "check-in date", tt.value)
			checkError(t, err, tt.wantErr)
			if tt.wantErr {
				if !IsMalformed(err) {
					t.Errorf("expected malformed response error, got %v", err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("parsed %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTestConnectionSkipsFullWhenBasicFails(t *testing.T) {
	cfg := testClientConfig("http://127.0.0.1:1")
	cfg.Timeout = 500 * time.Millisecond
	cfg.PingTimeout = 500 * time.Millisecond
	client := NewClient(cfg)

	diag := client.TestConnection(context.Background())
	if diag.Success {
		t.Error("expected diagnostics failure")
	}
	if diag.IsConnected {
		t.Error("expected isConnected=false")
	}
	if diag.BasicTest == nil || diag.BasicTest.Success {
		t.Error("expected failed basic test result")
	}
	if diag.FullTest != nil {
		t.Error("expected full test to be skipped")
	}
}

func TestTestConnectionFullPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pingEndpoint:
			fmt.Fprint(w, `<PMSResponse status="ok"></PMSResponse>`)
		case bookingsEndpoint:
			fmt.Fprint(w, `<PMSResponse status="ok"><Bookings></Bookings></PMSResponse>`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	diag := client.TestConnection(context.Background())
	if !diag.Success || !diag.IsConnected {
		t.Fatalf("expected fully operational diagnostics, got %+v", diag)
	}
	if diag.BasicTest == nil || !diag.BasicTest.Success {
		t.Error("expected successful basic test")
	}
	if diag.FullTest == nil || !diag.FullTest.Success {
		t.Error("expected successful full test")
	}
}

func TestFetchAllPagesStopsOnError(t *testing.T) {
	calls := 0
	_, err := fetchAllPages(2, func(page, pageSize int) ([]int, error) {
		calls++
		if page == 2 {
			return nil, errors.New("boom")
		}
		return []int{1, 2}, nil
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
