package models

// ErrorKind classifies a failed fetcher invocation.
type ErrorKind string

const (
	KindPrivateVideo     ErrorKind = "private-video"
	KindVideoUnavailable ErrorKind = "video-unavailable"
	KindAgeRestricted    ErrorKind = "age-restricted"
	KindPremiumRequired  ErrorKind = "premium-required"
	KindGeneric          ErrorKind = "generic"
)

// Classification is the verdict derived from a captured log.
type Classification struct {
	Kind    ErrorKind
	Summary string
}
