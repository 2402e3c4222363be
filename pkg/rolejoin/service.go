package rolejoin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/rolejoin/pkg/groupjoin"
	"github.com/doodlesbykumbi/rolejoin/pkg/model"
	"github.com/doodlesbykumbi/rolejoin/pkg/store"
)

// Service answers "which roles does this user hold" over any store.Source.
type Service struct {
	source store.Source
	log    *zap.Logger
}

// NewService creates a new Service. A nil logger disables logging.
func NewService(source store.Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{source: source, log: log}
}

// RolesByUser returns every role in id order. Each role's UserRoles holds
// the assignments of userID to that role and is empty, not nil, when there
// are none.
func (s *Service) RolesByUser(ctx context.Context, userID int) ([]model.Role, error) {
	roles, err := s.source.Roles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	links, err := s.source.UserRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user roles: %w", err)
	}

	result := groupjoin.RolesWithUserLinks(roles, links, userID)

	s.log.Debug("roles by user",
		zap.Int("user_id", userID),
		zap.Int("roles", len(roles)),
		zap.Int("user_roles", len(links)),
	)
	return result, nil
}
