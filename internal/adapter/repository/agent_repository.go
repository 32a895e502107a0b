package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/internal/domain/repositories"
)

// agentRepository implements the AgentRepository interface
type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *gorm.DB) repositories.AgentRepository {
	return &agentRepository{db: db}
}

// Create creates a new agent
func (r *agentRepository) Create(ctx context.Context, agent *entities.Agent) error {
	return r.db.WithContext(ctx).Create(agent).Error
}

// FindByID retrieves an agent by its ID
func (r *agentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Agent, error) {
	var agent entities.Agent
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrAgentNotFound
		}
		return nil, err
	}
	return &agent, nil
}

// FindByIDs batch-resolves agents by id set. Ids that are not valid UUIDs
// are skipped; provider speaker ids may reference non-agent identities.
func (r *agentRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.Agent, error) {
	uuids := parseUUIDs(ids)
	if len(uuids) == 0 {
		return nil, nil
	}

	var agents []*entities.Agent
	err := r.db.WithContext(ctx).
		Where("id IN ?", uuids).
		Find(&agents).Error
	return agents, err
}

// parseUUIDs filters a string set down to valid UUIDs
func parseUUIDs(ids []string) []uuid.UUID {
	uuids := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		uuids = append(uuids, parsed)
	}
	return uuids
}
