package persistence

import (
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	activeFilterQuery = "persistence:active_filter"
	activeFilterRow   = "persistence:active_filter_row"
)

var activeColumn = clause.Column{Table: clause.CurrentTable, Name: "is_active"}

// RegisterActiveFilter installs the global read filter: every query against a
// soft-deletable model gets "is_active = true" unless the statement is Unscoped.
// Unscoped() is the administrative bypass.
func RegisterActiveFilter(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register(activeFilterQuery, applyActiveFilter); err != nil {
		return err
	}
	return db.Callback().Row().Before("gorm:row").Register(activeFilterRow, applyActiveFilter)
}

func applyActiveFilter(db *gorm.DB) {
	stmt := db.Statement
	if db.Error != nil || stmt.Unscoped || stmt.Schema == nil || stmt.SQL.Len() > 0 {
		return
	}
	if !modelSoftDeletes(stmt.Schema.ModelType) {
		return
	}
	if stmt.Schema.LookUpField("is_active") == nil {
		return
	}
	// Count followed by Find reuses one statement; preloads get a fresh one.
	if hasActiveCondition(stmt) {
		return
	}
	stmt.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: activeColumn, Value: true},
	}})
}

func hasActiveCondition(stmt *gorm.Statement) bool {
	c, ok := stmt.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, e := range where.Exprs {
		if eq, ok := e.(clause.Eq); ok && eq.Column == activeColumn {
			return true
		}
	}
	return false
}

func modelSoftDeletes(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	return SupportsSoftDelete(reflect.New(t).Interface())
}
