package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/notifications/notifications/dto"
	"schoolku_backend/internals/features/notifications/notifications/model"
	authModel "schoolku_backend/internals/features/users/auth/model"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

type NotificationService struct {
	uows *uow.Factory
	log  zerolog.Logger
	now  func() time.Time
}

func NewNotificationService(uows *uow.Factory, logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		uows: uows,
		log:  logger.With().Str("component", "notification_service").Logger(),
		now:  time.Now,
	}
}

func notifications(u *uow.UnitOfWork) *uow.Repository[model.NotificationModel, uint] {
	return uow.Use[model.NotificationModel, uint](u)
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_date DESC, id DESC")
}

// Send ke satu user. User harus ada.
func (s *NotificationService) Send(ctx context.Context, actor string, req dto.SendNotificationRequest) (*dto.NotificationResponse, error) {
	u := s.uows.New()
	ok, err := uow.Use[authModel.UserModel, string](u).Any(ctx, uow.Where("id = ?", req.UserID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("User", req.UserID)
	}

	m, err := req.ToModel()
	if err != nil {
		return nil, apperror.ValidationField("data", "Data tidak bisa di-encode")
	}
	notifications(u).Add(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	resp := dto.FromModel(m)
	return &resp, nil
}

// Broadcast ke semua user aktif yang memegang role. Mengembalikan jumlah penerima.
func (s *NotificationService) Broadcast(ctx context.Context, actor string, req dto.BroadcastRequest) (int, error) {
	u := s.uows.New()
	var ids []string
	err := uow.Use[authModel.UserModel, string](u).Query(ctx).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.normalized_name = ?", authModel.NormalizeKey(req.Role)).
		Distinct().
		Pluck("users.id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	for _, id := range ids {
		m, err := req.ToModel(id)
		if err != nil {
			return 0, apperror.ValidationField("data", "Data tidak bisa di-encode")
		}
		notifications(u).Add(m)
	}
	if _, err := u.Complete(ctx, actor); err != nil {
		return 0, err
	}
	s.log.Info().Str("role", req.Role).Int("recipients", len(ids)).Msg("📣 Broadcast terkirim")
	return len(ids), nil
}

// Mine: notifikasi milik user, terbaru dulu.
func (s *NotificationService) Mine(ctx context.Context, userID string, unreadOnly bool, p helper.Paging) ([]dto.NotificationResponse, int64, error) {
	q := notifications(s.uows.New()).Query(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.NotificationModel
	if err := q.Scopes(newestFirst).Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return dto.FromModels(rows), total, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return notifications(s.uows.New()).Count(ctx, uow.Where("user_id = ? AND is_read = ?", userID, false))
}

// own: notifikasi user lain dilaporkan sebagai not found.
func own(ctx context.Context, u *uow.UnitOfWork, userID string, id uint) (*model.NotificationModel, error) {
	m, err := notifications(u).FirstWhere(ctx, uow.Where("id = ? AND user_id = ?", id, userID))
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("Notification", id)
	}
	return m, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, id uint) (*dto.NotificationResponse, error) {
	u := s.uows.New()
	m, err := own(ctx, u, userID, id)
	if err != nil {
		return nil, err
	}
	if !m.IsRead {
		now := s.now().UTC()
		m.IsRead = true
		m.ReadAt = &now
		notifications(u).Update(m)
		if _, err := u.Complete(ctx, userID); err != nil {
			return nil, err
		}
	}
	resp := dto.FromModel(m)
	return &resp, nil
}

// MarkAllRead mengembalikan jumlah notifikasi yang berubah.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	u := s.uows.New()
	unread, err := notifications(u).Find(ctx, uow.Where("user_id = ? AND is_read = ?", userID, false))
	if err != nil {
		return 0, err
	}
	if len(unread) == 0 {
		return 0, nil
	}
	now := s.now().UTC()
	for i := range unread {
		unread[i].IsRead = true
		unread[i].ReadAt = &now
		notifications(u).Update(&unread[i])
	}
	if _, err := u.Complete(ctx, userID); err != nil {
		return 0, err
	}
	return len(unread), nil
}

// Delete menghapus fisik.
func (s *NotificationService) Delete(ctx context.Context, userID string, id uint) error {
	u := s.uows.New()
	m, err := own(ctx, u, userID, id)
	if err != nil {
		return err
	}
	notifications(u).Remove(m)
	_, err = u.Complete(ctx, userID)
	return err
}

// PurgeRead menghapus notifikasi terbaca yang lebih tua dari retention.
// Dijalankan cron dengan aktor sistem.
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int, error) {
	u := s.uows.New()
	cutoff := s.now().UTC().Add(-retention)
	stale, err := notifications(u).Find(ctx, uow.Where("is_read = ? AND created_date < ?", true, cutoff))
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}
	for i := range stale {
		notifications(u).Remove(&stale[i])
	}
	if _, err := u.Complete(ctx, ""); err != nil {
		return 0, err
	}
	s.log.Info().Int("purged", len(stale)).Msg("🧹 Notifikasi lama dihapus")
	return len(stale), nil
}
