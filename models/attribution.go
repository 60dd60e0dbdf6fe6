package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// AttributionSnapshot is the first-touch record carried in the urano_ref
// cookie: the referral code that brought the visitor in, whatever UTM tags
// rode along with it, and when we first saw them. It lives in the browser,
// not in the database — the conversion recorder reads it back at purchase
// time.
type AttributionSnapshot struct {
	RefCode     string    `json:"ref_code"`
	UTMSource   string    `json:"utm_source,omitempty"`
	UTMMedium   string    `json:"utm_medium,omitempty"`
	UTMCampaign string    `json:"utm_campaign,omitempty"`
	UTMContent  string    `json:"utm_content,omitempty"`
	UTMTerm     string    `json:"utm_term,omitempty"`
	FirstSeenAt time.Time `json:"first_seen_at"`
}

// EncodeCookie renders the snapshot as URL-encoded JSON, the wire format of
// the urano_ref cookie.
func (s *AttributionSnapshot) EncodeCookie() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal attribution snapshot: %w", err)
	}
	return url.QueryEscape(string(raw)), nil
}

// DecodeAttributionCookie parses a urano_ref cookie value. An unparsable or
// empty value returns an error; callers on the conversion path treat that as
// "no attribution", never as a request failure.
func DecodeAttributionCookie(value string) (*AttributionSnapshot, error) {
	if value == "" {
		return nil, fmt.Errorf("empty attribution cookie")
	}
	raw, err := url.QueryUnescape(value)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape attribution cookie: %w", err)
	}
	var snap AttributionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to parse attribution cookie: %w", err)
	}
	if snap.RefCode == "" {
		return nil, fmt.Errorf("attribution cookie has no ref_code")
	}
	return &snap, nil
}
