// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// Clock returns the current time. Flows and services accept one so tests can move time.
type Clock func() time.Time

// OrUTCNow returns c, or UTCNow when c is nil
func (c Clock) OrUTCNow() Clock {
	if c == nil {
		return UTCNow
	}
	return c
}

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// TimeToUTCPtr converts a time pointer to UTC if it's not already
func TimeToUTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

// FormatTimePtr formats t as RFC3339, or returns nil when t is nil
func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// IsAfterPtr reports whether t is set and strictly after ref
func IsAfterPtr(t *time.Time, ref time.Time) bool {
	return t != nil && t.After(ref)
}
