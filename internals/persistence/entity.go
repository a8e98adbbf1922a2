// Package persistence holds the audit/soft-delete model shared by every table
// and the change entries the unit of work hands to its flush pipeline.
package persistence

import (
	"time"
)

// AuditFields are the audit and soft-delete columns carried by every entity.
// A row is live iff IsActive is true.
type AuditFields struct {
	CreatedDate time.Time  `gorm:"column:created_date;not null" json:"created_date"`
	UpdatedDate *time.Time `gorm:"column:updated_date" json:"updated_date,omitempty"`
	CreatedByID *string    `gorm:"column:created_by_id;size:64" json:"created_by_id,omitempty"`
	UpdatedByID *string    `gorm:"column:updated_by_id;size:64" json:"updated_by_id,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	DeletedDate *time.Time `gorm:"column:deleted_date" json:"deleted_date,omitempty"`
	DeletedByID *string    `gorm:"column:deleted_by_id;size:64" json:"deleted_by_id,omitempty"`
}

// Audit exposes the audit columns to the flush pipeline.
func (a *AuditFields) Audit() *AuditFields { return a }

// BaseEntity is the integer-keyed base of the school entities.
type BaseEntity struct {
	ID uint `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AuditFields
}

// Auditable is implemented by every entity embedding AuditFields.
type Auditable interface {
	Audit() *AuditFields
}

// SoftDeletable is declared by entity types whose removal must flip IsActive
// instead of deleting the row.
type SoftDeletable interface {
	SoftDelete() bool
}

// SupportsSoftDelete reports the declared capability of an entity value.
func SupportsSoftDelete(v any) bool {
	sd, ok := v.(SoftDeletable)
	return ok && sd.SoftDelete()
}

// State is the pending state of a staged entity.
type State int

const (
	Added State = iota + 1
	Modified
	Deleted
)

func (s State) String() string {
	switch s {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Entry is one staged change. Entity is always a pointer to a model.
type Entry struct {
	Entity any
	State  State
}

// FlushContext is passed to every before/after flush hook.
type FlushContext struct {
	Entries []*Entry
	// Actor is nil for system work (jobs, seeding).
	Actor    *string
	Now      time.Time
	Affected int64
}

// Counts returns how many entries are in each state.
func (fc *FlushContext) Counts() (added, modified, deleted int) {
	for _, e := range fc.Entries {
		switch e.State {
		case Added:
			added++
		case Modified:
			modified++
		case Deleted:
			deleted++
		}
	}
	return
}

// ActorOf turns an explicit actor id into the nullable column value.
func ActorOf(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}
