// Package audit stamps audit metadata and rewrites hard deletes before a flush,
// and reports what was flushed afterwards.
package audit

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm/schema"

	"schoolku_backend/internals/persistence"
)

// Columns never listed in the per-field log detail.
var excludedColumns = map[string]struct{}{
	"id":            {},
	"created_date":  {},
	"updated_date":  {},
	"created_by_id": {},
	"updated_by_id": {},
	"is_active":     {},
	"deleted_date":  {},
	"deleted_by_id": {},
}

// Sensitive columns: secrets, tokens and normalized credentials.
var sensitiveColumns = map[string]struct{}{
	"password_hash":             {},
	"security_stamp":            {},
	"concurrency_stamp":         {},
	"refresh_token_hash":        {},
	"refresh_token_expiry_time": {},
	"normalized_email":          {},
	"normalized_user_name":      {},
}

type Interceptor struct {
	log     zerolog.Logger
	schemas *sync.Map
	namer   schema.Namer
}

func New(logger zerolog.Logger) *Interceptor {
	return &Interceptor{
		log:     logger.With().Str("component", "audit").Logger(),
		schemas: &sync.Map{},
		namer:   schema.NamingStrategy{},
	}
}

// BeforeFlush is the single owner of the soft-delete rewrite.
func (i *Interceptor) BeforeFlush(_ context.Context, fc *persistence.FlushContext) error {
	for _, e := range fc.Entries {
		a, ok := e.Entity.(persistence.Auditable)
		if !ok {
			continue
		}
		f := a.Audit()
		switch e.State {
		case persistence.Added:
			f.CreatedDate = fc.Now
			f.CreatedByID = fc.Actor
			f.IsActive = true
		case persistence.Modified:
			now := fc.Now
			f.UpdatedDate = &now
			f.UpdatedByID = fc.Actor
			if !f.IsActive && f.DeletedDate == nil {
				stampDeleted(f, fc)
			}
		case persistence.Deleted:
			if !persistence.SupportsSoftDelete(e.Entity) {
				continue
			}
			e.State = persistence.Modified
			f.IsActive = false
			if f.DeletedDate == nil {
				stampDeleted(f, fc)
			}
		}
	}
	return nil
}

func stampDeleted(f *persistence.AuditFields, fc *persistence.FlushContext) {
	now := fc.Now
	f.DeletedDate = &now
	f.DeletedByID = fc.Actor
}

// AfterFlush logs a summary, and per-type field detail at debug level.
// It never fails the flush.
func (i *Interceptor) AfterFlush(ctx context.Context, fc *persistence.FlushContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			i.log.Warn().Interface("panic", r).Msg("audit logging failed")
		}
		err = nil
	}()

	added, modified, deleted := fc.Counts()
	if added+modified+deleted == 0 {
		return nil
	}
	actor := "system"
	if fc.Actor != nil {
		actor = *fc.Actor
	}
	i.log.Info().
		Int("added", added).
		Int("modified", modified).
		Int("deleted", deleted).
		Int64("affected", fc.Affected).
		Str("actor", actor).
		Msg("changes saved")

	if i.log.GetLevel() > zerolog.DebugLevel || zerolog.GlobalLevel() > zerolog.DebugLevel {
		return nil
	}
	for key, fields := range i.details(ctx, fc) {
		i.log.Debug().Str("entity", key).Strs("fields", fields).Msg("entity changes")
	}
	return nil
}

// details groups written columns by "<Type>/<state>". Added entries list the
// non-zero columns actually inserted; Modified entries list every column since
// updates write the whole row; physical deletes write none.
func (i *Interceptor) details(ctx context.Context, fc *persistence.FlushContext) map[string][]string {
	sets := map[string]map[string]struct{}{}
	for _, e := range fc.Entries {
		s, err := schema.Parse(e.Entity, i.schemas, i.namer)
		if err != nil {
			i.log.Debug().Err(err).Msg("audit schema parse")
			continue
		}
		key := fmt.Sprintf("%s/%s", s.Name, e.State)
		set, ok := sets[key]
		if !ok {
			set = map[string]struct{}{}
			sets[key] = set
		}
		for _, c := range writtenColumns(ctx, s, e) {
			set[c] = struct{}{}
		}
	}

	out := make(map[string][]string, len(sets))
	for key, set := range sets {
		cols := make([]string, 0, len(set))
		for c := range set {
			cols = append(cols, c)
		}
		out[key] = LoggableColumns(cols)
	}
	return out
}

func writtenColumns(ctx context.Context, s *schema.Schema, e *persistence.Entry) []string {
	switch e.State {
	case persistence.Modified:
		return s.DBNames
	case persistence.Added:
		rv := reflect.ValueOf(e.Entity)
		cols := make([]string, 0, len(s.DBNames))
		for _, f := range s.Fields {
			if f.DBName == "" {
				continue
			}
			if _, zero := f.ValueOf(ctx, rv); !zero {
				cols = append(cols, f.DBName)
			}
		}
		return cols
	default:
		return nil
	}
}

// LoggableColumns drops audit and sensitive columns and sorts the rest.
func LoggableColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		lc := strings.ToLower(c)
		if _, skip := excludedColumns[lc]; skip {
			continue
		}
		if _, skip := sensitiveColumns[lc]; skip {
			continue
		}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
