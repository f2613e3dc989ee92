package history

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// chromeEpoch is the reference instant of Chrome's visit_time values:
// microseconds since 1601-01-01 00:00:00 UTC, not the Unix epoch.
var chromeEpoch = time.Date(1601, time.January, 1, 0, 0, 0, 0, time.UTC)

// ChromeTimestamp converts a Chrome visit_time to a calendar timestamp.
func ChromeTimestamp(micros int64) time.Time {
	sec := micros / 1_000_000
	rem := micros % 1_000_000
	return chromeEpoch.Add(time.Duration(sec)*time.Second + time.Duration(rem)*time.Microsecond)
}

// CleanURL strips the query string and fragment, keeping scheme, host and
// path only.
func CleanURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedURL, raw, err)
	}
	return fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path), nil
}

// RegistrableDomain extracts the registrable domain (second-level label plus
// public suffix) from a URL. Hosts without a public suffix, such as
// localhost or bare IPs, are returned as-is.
func RegistrableDomain(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrMalformedURL, raw, err)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", nil
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, nil
	}
	return domain, nil
}

// Clean converts raw visit rows into visit records with calendar timestamps,
// cleaned URLs and registrable domains.
func Clean(raws []RawVisit) ([]Visit, error) {
	visits := make([]Visit, 0, len(raws))
	for _, r := range raws {
		clean, err := CleanURL(r.URL)
		if err != nil {
			return nil, err
		}
		domain, err := RegistrableDomain(r.URL)
		if err != nil {
			return nil, err
		}
		visits = append(visits, Visit{
			URL:        r.URL,
			Title:      r.Title,
			VisitTime:  r.VisitTime,
			FromVisit:  r.FromVisit,
			Transition: r.Transition,
			VisitID:    r.VisitID,
			Time:       ChromeTimestamp(r.VisitTime),
			URLClean:   clean,
			URLDomain:  domain,
		})
	}
	return visits, nil
}
