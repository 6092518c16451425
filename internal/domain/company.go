package domain

import "context"

// CompanyRepository resolves company ownership.
type CompanyRepository interface {
	// GetIDByOwnerID returns the id of the company owned by userID, or ErrNotFound.
	GetIDByOwnerID(ctx context.Context, userID string) (string, error)
}
