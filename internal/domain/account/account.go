package account

import (
	"context"

	"github.com/google/uuid"
)

// Remover deletes a user together with everything the user owns: posts, the profile
// and the user record. Implementations run the three deletions as one unit.
type Remover interface {
	RemoveAccount(ctx context.Context, userID uuid.UUID) error
}
