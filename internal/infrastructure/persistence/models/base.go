// Package models holds the GORM table mappings. Domain types stay free of
// ORM tags; each model converts to and from its aggregate.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumio/backend/internal/domain/shared"
)

// BaseModel provides the id and timestamps every table carries
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to a domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// FromDomainBaseEntity populates BaseModel from a domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel adds the optimistic-lock version of aggregate roots
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from a BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain root without pending events
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain(), Version: m.Version}
}

// AgencyScopedModel adds the owning agency
type AgencyScopedModel struct {
	AggregateModel
	AgencyID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainAgencyScopedRoot populates AgencyScopedModel from the domain root
func (m *AgencyScopedModel) FromDomainAgencyScopedRoot(r shared.AgencyScopedRoot) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.AgencyID = r.AgencyID
}

// ToAgencyScopedRoot rebuilds the domain root
func (m *AgencyScopedModel) ToAgencyScopedRoot() shared.AgencyScopedRoot {
	return shared.AgencyScopedRoot{BaseAggregateRoot: m.AggregateModel.ToAggregateRoot(), AgencyID: m.AgencyID}
}
