package domain

// LegacyCredential is the single-account record written by versions that
// predate multi-account support.
type LegacyCredential struct {
	Credential            string
	LastNotifiedThreshold int
}
