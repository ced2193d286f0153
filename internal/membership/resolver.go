package membership

import (
	"context"

	apperrors "serve-board.com/serve-board/internal/errors"
)

type Resolver struct {
	provider Provider
}

func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Resolve builds the actor's Context for orgID. Users without any
// membership in the organization get ErrUnauthorized.
func (r *Resolver) Resolve(ctx context.Context, orgID, userID string) (Context, error) {
	if orgID == "" || userID == "" {
		return Context{}, apperrors.ErrUnauthorized
	}

	m, err := r.provider.GetMembership(ctx, orgID, userID)
	if err != nil {
		return Context{}, err
	}
	if m == nil || m.Role == "" {
		return Context{}, apperrors.ErrUnauthorized
	}

	return Context{
		OrgID:      orgID,
		UserID:     userID,
		Role:       m.Role,
		Active:     m.Active,
		GroupRoles: m.ActiveGroupRoles,
	}, nil
}
