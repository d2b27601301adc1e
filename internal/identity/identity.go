// Package identity derives stable content identifiers from input references.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"PodcastSummarizer/internal/domain"
)

const (
	trackingPrefix = "utm_"
	labelMaxLen    = 10
	digestLen      = 8
	datestamp      = "20060102"
)

// DeriveID maps a reference (URL or local path) to its content identifier.
// The result is a pure function of (reference, now): identical references
// normalized the same way on the same calendar day collide deliberately, so
// later stages can reuse that day's artifacts. The date component also means
// a re-run on a later day starts a fresh artifact family.
func DeriveID(reference string, now time.Time) domain.ContentID {
	normalized := Normalize(reference)

	sum := md5.Sum([]byte(normalized))
	digest := hex.EncodeToString(sum[:])[:digestLen]

	return domain.ContentID(label(reference) + "_" + digest + "_" + now.Format(datestamp))
}

// Normalize strips tracking query parameters and trailing slashes so that
// share-link variants of the same reference hash identically.
func Normalize(reference string) string {
	trimmed := strings.TrimRight(reference, "/")

	u, err := url.Parse(trimmed)
	if err != nil || u.RawQuery == "" {
		return trimmed
	}

	kept := url.Values{}
	for key, values := range u.Query() {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			continue
		}
		for _, v := range values {
			kept.Add(key, v)
		}
	}
	u.RawQuery = kept.Encode()

	return strings.TrimRight(u.String(), "/")
}

// label extracts a short human-legible hint: the first hostname label for
// URLs, the filename stem for local paths. Never fails; worst case it
// returns "local".
func label(reference string) string {
	if u, err := url.Parse(reference); err == nil && u.Host != "" {
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if dot := strings.IndexByte(host, '.'); dot > 0 {
			host = host[:dot]
		}
		return clip(host)
	}

	stem := strings.TrimSuffix(filepath.Base(reference), filepath.Ext(reference))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '-'
	}, stem)
	if stem == "" || stem == "." {
		return "local"
	}
	return clip(stem)
}

func clip(s string) string {
	if len(s) > labelMaxLen {
		return s[:labelMaxLen]
	}
	return s
}
