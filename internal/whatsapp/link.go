package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the public click-to-chat endpoint.
const DefaultBaseURL = "https://wa.me"

// LinkBuildError reports a phone that cannot be used as a link target.
type LinkBuildError struct {
	Phone  string
	Reason string
}

func (e *LinkBuildError) Error() string {
	return fmt.Sprintf("build chat link for %q: %s", e.Phone, e.Reason)
}

// LinkBuilder produces click-to-chat URIs of the form
// <base>/<canonical phone>?text=<message>.
type LinkBuilder struct {
	base string
}

var defaultLinkBuilder = &LinkBuilder{base: DefaultBaseURL}

// NewLinkBuilder validates baseURL, which must be an absolute http(s) URL
// without query or fragment.
func NewLinkBuilder(baseURL string) (*LinkBuilder, error) {
	if baseURL == "" {
		return defaultLinkBuilder, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", baseURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return nil, fmt.Errorf("base url %q must not carry a query or fragment", baseURL)
	}
	return &LinkBuilder{base: strings.TrimRight(u.String(), "/")}, nil
}

// BuildLink builds a link against DefaultBaseURL.
func BuildLink(phone, message string) (string, error) {
	return defaultLinkBuilder.Build(phone, message)
}

// Build fails rather than emitting a link with a missing or malformed phone.
// An empty message yields a link without the text parameter.
func (b *LinkBuilder) Build(phone, message string) (string, error) {
	if phone == "" {
		return "", &LinkBuildError{Phone: phone, Reason: "empty phone"}
	}
	if !IsCanonical(phone) {
		return "", &LinkBuildError{Phone: phone, Reason: "phone is not in canonical form"}
	}

	link := b.base + "/" + phone
	if message != "" {
		link += "?text=" + encodeText(message)
	}
	return link, nil
}

// encodeText escapes every reserved character. Spaces become %20 rather than
// '+', which some WhatsApp clients show literally.
func encodeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
