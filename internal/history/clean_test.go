package history

import (
	"errors"
	"testing"
	"time"
)

func TestChromeTimestamp(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		micros int64
		want   time.Time
	}{
		{
			name:   "chrome epoch",
			micros: 0,
			want:   time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "unix epoch",
			micros: 11644473600000000,
			want:   time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "sub-second precision survives",
			micros: 11644473600000000 + 1500000,
			want:   time.Date(1970, time.January, 1, 0, 0, 1, 500000000, time.UTC),
		},
		{
			name:   "modern timestamp",
			micros: 13393036800000000, // 2025-05-30 00:00:00 UTC
			want:   time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := ChromeTimestamp(tt.micros)
			if !got.Equal(tt.want) {
				t.Fatalf("ChromeTimestamp(%d) = %v, want %v", tt.micros, got, tt.want)
			}
		})
	}
}

func TestCleanURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips query string",
			in:   "https://www.youtube.com/watch?v=abc123",
			want: "https://www.youtube.com/watch",
		},
		{
			name: "strips fragment",
			in:   "https://en.wikipedia.org/wiki/Go#History",
			want: "https://en.wikipedia.org/wiki/Go",
		},
		{
			name: "keeps plain url intact",
			in:   "http://localhost:8080/debug",
			want: "http://localhost:8080/debug",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := CleanURL(tt.in)
			if err != nil {
				t.Fatalf("CleanURL() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("CleanURL() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistrableDomain(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain host", in: "https://github.com/golang/go", want: "github.com"},
		{name: "www subdomain", in: "https://www.youtube.com/watch?v=x", want: "youtube.com"},
		{name: "deep subdomain", in: "https://mail.google.com/mail/u/0/", want: "google.com"},
		{name: "multi-label suffix", in: "https://news.bbc.co.uk/article", want: "bbc.co.uk"},
		{name: "localhost passes through", in: "http://localhost:3000/app", want: "localhost"},
		{name: "ip passes through", in: "http://127.0.0.1:8080/", want: "127.0.0.1"},
		{name: "no host", in: "about:blank", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := RegistrableDomain(tt.in)
			if err != nil {
				t.Fatalf("RegistrableDomain() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("RegistrableDomain() got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanMalformedURL(t *testing.T) {
	t.Parallel()
	_, err := Clean([]RawVisit{{URL: "http://%zz invalid"}})
	if !errors.Is(err, ErrMalformedURL) {
		t.Fatalf("expected ErrMalformedURL, got %v", err)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()
	raws := []RawVisit{
		{URL: "https://www.reddit.com/r/golang/?sort=top", Title: "golang", VisitTime: 11644473600000000},
	}
	visits, err := Clean(raws)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if len(visits) != 1 {
		t.Fatalf("expected 1 visit, got %d", len(visits))
	}
	v := visits[0]
	if v.URLClean != "https://www.reddit.com/r/golang/" {
		t.Fatalf("unexpected clean url %q", v.URLClean)
	}
	if v.URLDomain != "reddit.com" {
		t.Fatalf("unexpected domain %q", v.URLDomain)
	}
	if !v.Time.Equal(time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", v.Time)
	}
}
