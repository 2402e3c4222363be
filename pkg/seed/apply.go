package seed

import (
	"context"
	"fmt"

	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// Apply writes f to s in a single transaction. With reset, existing
// assignments, roles and users are removed first.
func Apply(ctx context.Context, s store.Seeder, f *Fixture, reset bool) error {
	return s.Transaction(ctx, func(tx store.Seeder) error {
		if reset {
			if err := tx.Reset(ctx); err != nil {
				return fmt.Errorf("failed to reset store: %w", err)
			}
		}
		if err := tx.CreateUsers(ctx, f.Users...); err != nil {
			return err
		}
		if err := tx.CreateRoles(ctx, f.Roles...); err != nil {
			return err
		}
		for _, link := range f.UserRoles {
			if err := tx.AssignRole(ctx, link); err != nil {
				return fmt.Errorf("failed to assign role %d to user %d: %w", link.RoleID, link.UserID, err)
			}
		}
		return nil
	})
}
