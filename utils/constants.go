package utils

import (
	"time"
)

// Session and security constants
const (
	// AdminTokenTTL is the lifetime of an admin session token (24 hours)
	AdminTokenTTL = 24 * time.Hour

	// AdminTokenTTLSeconds is AdminTokenTTL in seconds
	AdminTokenTTLSeconds = 86400

	// DefaultMaxFailedLogins is the number of consecutive failed logins that locks an account
	DefaultMaxFailedLogins = 5

	// DefaultLockoutDuration is how long a locked account stays locked
	DefaultLockoutDuration = 2 * time.Hour

	// AdminTokenCookie is the name of the HTTP-only session cookie
	AdminTokenCookie = "admin_token"
)

// Submission policy constants
const (
	// ContactDedupeWindow is the rolling window in which a second contact from the same email is rejected
	ContactDedupeWindow = 24 * time.Hour

	// CoverLetterMinLength is the minimum cover letter length in characters
	CoverLetterMinLength = 50

	// CoverLetterMaxLength is the maximum cover letter length in characters
	CoverLetterMaxLength = 5000

	DefaultCurrency = "USD"
)

// Pagination constants
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
