// Package share builds shareable locators for records and the social intent
// URLs the original site offered. The core only resolves a locator back to a
// record id; constructing and opening links is a collaborator concern.
package share

import (
	"net/url"

	"github.com/jeisey/phiti/internal/domain"
)

// DefaultBaseURL is the public site the share links point at.
const DefaultBaseURL = "https://jeisey.github.io/phiti/"

// Locator builds a shareable URL for a record. The id is the resolution key;
// zip and area ride along so the site can pre-fill its filters.
func Locator(baseURL string, rec *domain.Record) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	params := url.Values{}
	params.Set("id", rec.ID)
	params.Set("zip", rec.ZipCode)
	params.Set("area", rec.Area)
	u.RawQuery = params.Encode()
	return u.String()
}

// ParseLocator extracts the record id from a shared URL, or "" when absent.
func ParseLocator(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}

// TweetURL returns the Twitter intent link for a share URL.
func TweetURL(shareURL string) string {
	params := url.Values{}
	params.Set("text", "Check out this graffiti in Philadelphia on Phiti!")
	params.Set("url", shareURL)
	return "https://twitter.com/intent/tweet?" + params.Encode()
}

// FacebookURL returns the Facebook sharer link for a share URL.
func FacebookURL(shareURL string) string {
	params := url.Values{}
	params.Set("u", shareURL)
	return "https://www.facebook.com/sharer/sharer.php?" + params.Encode()
}

// MailtoURL returns a mailto link carrying the share URL.
func MailtoURL(shareURL string) string {
	params := url.Values{}
	params.Set("subject", "Philadelphia Graffiti on Phiti")
	params.Set("body", "Check out this graffiti I found on Phiti: "+shareURL)
	return "mailto:?" + params.Encode()
}
