package domain

import (
	"errors"
	"net/url"
	"strings"
)

// ErrNotSignedIn is returned when an action needs a credential and none is stored.
var ErrNotSignedIn = errors.New("not signed in")

// Draft is a content item pending submission.
type Draft struct {
	Title string
	Link  string
	Type  ContentType
}

// Normalized returns the draft with title and link trimmed and an invalid
// type replaced by the default one.
func (d Draft) Normalized() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Link = strings.TrimSpace(d.Link)
	if !d.Type.Valid() {
		d.Type = DefaultContentType
	}
	return d
}

// ValidationError is a client-side rejection of user input.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// ValidateDraft runs the pre-submission checks in order and stops at the
// first failure: title, link, link syntax, then credential presence.
func ValidateDraft(d Draft, credentialPresent bool) error {
	d = d.Normalized()

	if d.Title == "" {
		return &ValidationError{Field: "title", Message: "Please enter a title"}
	}
	if d.Link == "" {
		return &ValidationError{Field: "link", Message: "Please enter a link"}
	}
	if !IsAbsoluteURL(d.Link) {
		return &ValidationError{Field: "link", Message: "Please enter a valid URL"}
	}
	if !credentialPresent {
		return &ValidationError{Message: "Please login first", Err: ErrNotSignedIn}
	}
	return nil
}

// IsAbsoluteURL reports whether s parses as an absolute URL: a scheme plus
// either a host or an opaque part (as in mailto:someone@example.com).
func IsAbsoluteURL(s string) bool {
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}
