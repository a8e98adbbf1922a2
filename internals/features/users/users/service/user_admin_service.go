package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"schoolku_backend/internals/constants"
	authModel "schoolku_backend/internals/features/users/auth/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	"schoolku_backend/internals/features/users/users/dto"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

// UserAdminService mengelola akun login: daftar, role, nonaktif/pulihkan.
type UserAdminService struct {
	uows *uow.Factory
	log  zerolog.Logger
}

func NewUserAdminService(uows *uow.Factory, logger zerolog.Logger) *UserAdminService {
	return &UserAdminService{
		uows: uows,
		log:  logger.With().Str("component", "user_admin_service").Logger(),
	}
}

func users(u *uow.UnitOfWork, withDeleted bool) *uow.Repository[authModel.UserModel, string] {
	r := uow.Use[authModel.UserModel, string](u)
	if withDeleted {
		return r.IgnoreQueryFilters()
	}
	return r
}

func (s *UserAdminService) load(ctx context.Context, u *uow.UnitOfWork, id string, withDeleted bool) (*authModel.UserModel, error) {
	m, err := users(u, withDeleted).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFoundMsg("User tidak ditemukan")
	}
	return m, nil
}

func (s *UserAdminService) response(ctx context.Context, u *uow.UnitOfWork, m *authModel.UserModel) (*dto.UserAdminResponse, error) {
	roles, err := authService.RolesOf(ctx, u, m.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.FromModel(m, roles)
	return &resp, nil
}

// List mencari nama/email; withDeleted ikut menampilkan akun nonaktif.
func (s *UserAdminService) List(ctx context.Context, p helper.Paging, withDeleted bool) ([]dto.UserAdminResponse, int64, error) {
	u := s.uows.New()
	q := users(u, withDeleted).Query(ctx)
	if p.Search != "" {
		like := "%" + strings.ToUpper(p.Search) + "%"
		q = q.Where("normalized_email LIKE ? OR UPPER(first_name) LIKE ? OR UPPER(last_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []authModel.UserModel
	if err := q.Order("created_date DESC").Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserAdminResponse, 0, len(rows))
	for i := range rows {
		resp, err := s.response(ctx, u, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *resp)
	}
	return out, total, nil
}

func (s *UserAdminService) GetByID(ctx context.Context, id string) (*dto.UserAdminResponse, error) {
	u := s.uows.New()
	m, err := s.load(ctx, u, id, true)
	if err != nil {
		return nil, err
	}
	return s.response(ctx, u, m)
}

func (s *UserAdminService) GrantRole(ctx context.Context, actor, id string, req dto.RoleRequest) (*dto.UserAdminResponse, error) {
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	u := s.uows.New()
	m, err := s.load(ctx, u, id, false)
	if err != nil {
		return nil, err
	}
	if err := authService.AssignRole(ctx, u, m.ID, req.Role); err != nil {
		return nil, err
	}
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", m.ID).Str("role", req.Role).Msg("role granted")
	return s.response(ctx, u, m)
}

// RevokeRole melepas role; admin tidak bisa mencabut role Admin miliknya sendiri.
func (s *UserAdminService) RevokeRole(ctx context.Context, actor, id string, req dto.RoleRequest) (*dto.UserAdminResponse, error) {
	if err := helper.ValidateStruct(req); err != nil {
		return nil, err
	}
	if actor == id && req.Role == constants.RoleAdmin {
		return nil, apperror.BadRequest("Tidak bisa mencabut role Admin milik sendiri")
	}
	u := s.uows.New()
	m, err := s.load(ctx, u, id, false)
	if err != nil {
		return nil, err
	}
	role, err := authService.FindRole(ctx, u, req.Role)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, apperror.NotFoundMsg("Role " + req.Role + " tidak ditemukan")
	}
	links := uow.Use[authModel.UserRoleModel, string](u)
	link, err := links.FirstWhere(ctx, uow.Where("user_id = ? AND role_id = ?", m.ID, role.ID))
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, apperror.BadRequest("User tidak memiliki role %s", req.Role)
	}
	links.Remove(link)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", m.ID).Str("role", req.Role).Msg("role revoked")
	return s.response(ctx, u, m)
}

// Deactivate: soft delete akun dan cabut refresh token supaya sesi berakhir.
func (s *UserAdminService) Deactivate(ctx context.Context, actor, id string) error {
	if actor == id {
		return apperror.BadRequest("Tidak bisa menonaktifkan akun sendiri")
	}
	u := s.uows.New()
	repo := users(u, false)
	m, err := s.load(ctx, u, id, false)
	if err != nil {
		return err
	}
	m.ClearRefreshToken()
	repo.Remove(m)
	_, err = u.Complete(ctx, actor)
	return err
}

func (s *UserAdminService) Restore(ctx context.Context, actor, id string) (*dto.UserAdminResponse, error) {
	u := s.uows.New()
	m, err := s.load(ctx, u, id, true)
	if err != nil {
		return nil, err
	}
	if m.IsActive {
		return nil, apperror.BadRequest("User masih aktif")
	}
	m.IsActive = true
	m.DeletedDate = nil
	m.DeletedByID = nil
	users(u, true).Update(m)
	if _, err := u.Complete(ctx, actor); err != nil {
		return nil, err
	}
	return s.response(ctx, u, m)
}
