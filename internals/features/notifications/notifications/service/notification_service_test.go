package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/notifications/notifications/dto"
	"schoolku_backend/internals/features/notifications/notifications/model"
	"schoolku_backend/internals/features/notifications/notifications/service"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
	"schoolku_backend/internals/testkit"
)

var firstPage = helper.Paging{Page: 1, PerPage: 20, Limit: 20}

func newService(t *testing.T) (*service.NotificationService, *testkit.Fixture) {
	t.Helper()
	fx := testkit.NewFixture(t)
	return service.NewNotificationService(fx.F, zerolog.Nop()), fx
}

func send(t *testing.T, svc *service.NotificationService, userID, title string) *dto.NotificationResponse {
	t.Helper()
	n, err := svc.Send(context.Background(), "admin", dto.SendNotificationRequest{UserID: userID, Title: title, Message: "isi"})
	require.NoError(t, err)
	return n
}

func TestSend_DefaultsAndUnknownUser(t *testing.T) {
	svc, fx := newService(t)
	user := fx.User()

	n, err := svc.Send(context.Background(), "admin", dto.SendNotificationRequest{
		UserID: user.ID, Title: "Tugas baru", Message: "Kerjakan bab 3",
		Data: map[string]any{"assignment_id": 7},
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeInfo, n.Type)
	assert.False(t, n.IsRead)
	assert.JSONEq(t, `{"assignment_id":7}`, string(n.Data))

	_, err = svc.Send(context.Background(), "admin", dto.SendNotificationRequest{UserID: "00000000-0000-0000-0000-000000000000", Title: "x", Message: "y"})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestBroadcast_ReachesRoleOnly(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	fx.Roles()
	s1, s2, teacher := fx.User(), fx.User(), fx.User()
	fx.Grant(s1.ID, constants.RoleStudent)
	fx.Grant(s2.ID, constants.RoleStudent)
	fx.Grant(teacher.ID, constants.RoleTeacher)

	n, err := svc.Broadcast(ctx, "admin", dto.BroadcastRequest{Role: constants.RoleStudent, Title: "Libur", Message: "Sekolah libur", Type: model.TypeAnnouncement})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, total, err := svc.Mine(ctx, teacher.ID, false, firstPage)
	require.NoError(t, err)
	assert.Zero(t, total)

	items, total, err := svc.Mine(ctx, s1.ID, false, firstPage)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, model.TypeAnnouncement, items[0].Type)
}

func TestReadFlow(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	user, other := fx.User(), fx.User()
	a := send(t, svc, user.ID, "a")
	send(t, svc, user.ID, "b")
	send(t, svc, user.ID, "c")

	_, err := svc.MarkRead(ctx, other.ID, a.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	read, err := svc.MarkRead(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)
	require.NotNil(t, read.ReadAt)

	unread, total, err := svc.Mine(ctx, user.ID, true, firstPage)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, unread, 2)

	n, err := svc.MarkAllRead(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDelete_IsPhysical(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	user := fx.User()
	n := send(t, svc, user.ID, "a")

	require.NoError(t, svc.Delete(ctx, user.ID, n.ID))

	left, err := uow.Use[model.NotificationModel, uint](fx.F.New()).IgnoreQueryFilters().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestPurgeRead_OnlyOldReadOnes(t *testing.T) {
	svc, fx := newService(t)
	ctx := context.Background()
	user := fx.User()
	oldRead := send(t, svc, user.ID, "old read")
	oldUnread := send(t, svc, user.ID, "old unread")
	freshRead := send(t, svc, user.ID, "fresh read")
	_, err := svc.MarkRead(ctx, user.ID, oldRead.ID)
	require.NoError(t, err)
	_, err = svc.MarkRead(ctx, user.ID, freshRead.ID)
	require.NoError(t, err)

	past := time.Now().UTC().AddDate(0, 0, -45)
	require.NoError(t, fx.DB.Model(&model.NotificationModel{}).
		Where("id IN ?", []uint{oldRead.ID, oldUnread.ID}).
		Update("created_date", past).Error)

	purged, err := svc.PurgeRead(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	items, _, err := svc.Mine(ctx, user.ID, false, firstPage)
	require.NoError(t, err)
	titles := []string{}
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	assert.ElementsMatch(t, []string{"old unread", "fresh read"}, titles)
}
