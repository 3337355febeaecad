package ports

import "context"

// UsageAPI is the remote usage service. Errors wrap domain.ErrTransport for
// network failures and *domain.StatusError for non-200 answers.
type UsageAPI interface {
	// Bootstrap returns the last active organization id of the credential.
	Bootstrap(ctx context.Context, credential string) (string, error)
	// Usage returns the raw usage body of an organization.
	Usage(ctx context.Context, organizationID string, credential string) ([]byte, error)
}
