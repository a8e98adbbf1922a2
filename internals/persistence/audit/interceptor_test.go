package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/persistence"
	"schoolku_backend/internals/persistence/audit"
)

type account struct {
	persistence.BaseEntity
	Email        string `gorm:"column:email"`
	Nickname     string `gorm:"column:nickname"`
	PasswordHash string `gorm:"column:password_hash"`
}

func (account) SoftDelete() bool { return true }

type receipt struct {
	persistence.BaseEntity
	Memo string
}

func capture(level zerolog.Level) (*audit.Interceptor, *bytes.Buffer) {
	var buf bytes.Buffer
	return audit.New(zerolog.New(&buf).Level(level)), &buf
}

func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func byMessage(logs []map[string]any, msg string) []map[string]any {
	var out []map[string]any
	for _, l := range logs {
		if l["message"] == msg {
			out = append(out, l)
		}
	}
	return out
}

func flush(actor *string, es ...*persistence.Entry) *persistence.FlushContext {
	return &persistence.FlushContext{Entries: es, Actor: actor, Now: time.Date(2025, 3, 1, 7, 0, 0, 0, time.UTC), Affected: int64(len(es))}
}

func TestAfterFlush_SummaryAtInfoWithoutDetail(t *testing.T) {
	i, buf := capture(zerolog.InfoLevel)
	actor := "admin-1"
	fc := flush(&actor,
		&persistence.Entry{Entity: &account{Email: "a@x"}, State: persistence.Added},
		&persistence.Entry{Entity: &account{Email: "b@x"}, State: persistence.Added},
		&persistence.Entry{Entity: &account{Email: "c@x"}, State: persistence.Modified},
		&persistence.Entry{Entity: &receipt{Memo: "x"}, State: persistence.Deleted},
	)

	require.NoError(t, i.AfterFlush(context.Background(), fc))

	logs := entries(t, buf)
	summary := byMessage(logs, "changes saved")
	require.Len(t, summary, 1)
	assert.EqualValues(t, 2, summary[0]["added"])
	assert.EqualValues(t, 1, summary[0]["modified"])
	assert.EqualValues(t, 1, summary[0]["deleted"])
	assert.EqualValues(t, 4, summary[0]["affected"])
	assert.Equal(t, "admin-1", summary[0]["actor"])
	assert.Empty(t, byMessage(logs, "entity changes"))
}

func TestAfterFlush_DetailOnlyAtDebug(t *testing.T) {
	i, buf := capture(zerolog.DebugLevel)
	fc := flush(nil,
		&persistence.Entry{Entity: &account{Email: "a@x", PasswordHash: "secret"}, State: persistence.Added},
		&persistence.Entry{Entity: &account{Email: "b@x", Nickname: "bee"}, State: persistence.Modified},
	)

	require.NoError(t, i.AfterFlush(context.Background(), fc))

	logs := entries(t, buf)
	summary := byMessage(logs, "changes saved")
	require.Len(t, summary, 1)
	assert.Equal(t, "system", summary[0]["actor"])

	fields := map[string][]any{}
	for _, l := range byMessage(logs, "entity changes") {
		fields[l["entity"].(string)] = l["fields"].([]any)
	}
	// only columns that were set on insert
	assert.Equal(t, []any{"email"}, fields["account/added"])
	// updates write the whole row
	assert.Equal(t, []any{"email", "nickname"}, fields["account/modified"])
	assert.NotContains(t, buf.String(), "secret")
	assert.NotContains(t, buf.String(), "password_hash")
}

func TestAfterFlush_NothingToLogForEmptyFlush(t *testing.T) {
	i, buf := capture(zerolog.DebugLevel)
	require.NoError(t, i.AfterFlush(context.Background(), flush(nil)))
	assert.Empty(t, buf.String())
}

func TestAfterFlush_NeverFailsTheFlush(t *testing.T) {
	i, buf := capture(zerolog.DebugLevel)
	var broken *account
	fc := flush(nil, &persistence.Entry{Entity: broken, State: persistence.Added})

	assert.NoError(t, i.AfterFlush(context.Background(), fc))
	assert.Len(t, byMessage(entries(t, buf), "changes saved"), 1)
}

func TestLoggableColumns_DropsAuditAndSensitive(t *testing.T) {
	got := audit.LoggableColumns([]string{
		"title", "id", "created_date", "updated_date", "created_by_id", "updated_by_id",
		"is_active", "deleted_date", "deleted_by_id",
		"password_hash", "security_stamp", "refresh_token_hash", "refresh_token_expiry_time",
		"normalized_email", "normalized_user_name", "Email",
	})
	assert.Equal(t, []string{"Email", "title"}, got)
}

func TestBeforeFlush_RewritesOnlySoftDeletable(t *testing.T) {
	i, _ := capture(zerolog.InfoLevel)
	actor := "admin-1"
	soft := &persistence.Entry{Entity: &account{Email: "a@x"}, State: persistence.Deleted}
	hard := &persistence.Entry{Entity: &receipt{Memo: "x"}, State: persistence.Deleted}
	fc := flush(&actor, soft, hard)

	require.NoError(t, i.BeforeFlush(context.Background(), fc))

	assert.Equal(t, persistence.Modified, soft.State)
	acc := soft.Entity.(*account)
	assert.False(t, acc.IsActive)
	require.NotNil(t, acc.DeletedDate)
	assert.True(t, acc.DeletedDate.Equal(fc.Now))
	assert.Equal(t, "admin-1", *acc.DeletedByID)
	assert.Equal(t, persistence.Deleted, hard.State)
}
