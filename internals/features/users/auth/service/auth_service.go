package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"schoolku_backend/internals/constants"
	studentModel "schoolku_backend/internals/features/school/students/model"
	teacherModel "schoolku_backend/internals/features/school/teachers/model"
	"schoolku_backend/internals/features/users/auth/dto"
	authModel "schoolku_backend/internals/features/users/auth/model"
	"schoolku_backend/internals/helpers/apperror"
	"schoolku_backend/internals/persistence/uow"
)

const tokenTypeBearer = "Bearer"

type AuthService struct {
	uows   *uow.Factory
	tokens *TokenService
	google GoogleVerifier
	log    zerolog.Logger
	now    func() time.Time
}

func NewAuthService(uows *uow.Factory, tokens *TokenService, google GoogleVerifier, logger zerolog.Logger) *AuthService {
	return &AuthService{
		uows:   uows,
		tokens: tokens,
		google: google,
		log:    logger.With().Str("component", "auth").Logger(),
		now:    time.Now,
	}
}

func users(u *uow.UnitOfWork) *uow.Repository[authModel.UserModel, string] {
	return uow.Use[authModel.UserModel, string](u)
}

/* ==========================
   REGISTER
========================== */

// Register membuat akun baru dengan role Student.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	u := s.uows.New()

	user := &authModel.UserModel{
		ID:          uuid.NewString(),
		UserName:    req.UserName,
		Email:       req.Email,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
	}
	user.Normalize()

	taken, err := users(u).Any(ctx, uow.Where("normalized_email = ?", user.NormalizedEmail))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ValidationField("email", "Email is already registered")
	}
	taken, err = users(u).Any(ctx, uow.Where("normalized_user_name = ?", user.NormalizedUserName))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.ValidationField("user_name", "User name is already taken")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal(err, "Password hashing failed")
	}
	user.PasswordHash = hash

	users(u).Add(user)
	if err := AssignRole(ctx, u, user.ID, constants.RoleStudent); err != nil {
		return nil, err
	}
	if _, err := u.Complete(ctx, user.ID); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("✅ User registered")
	resp := dto.NewUserResponse(user, []string{constants.RoleStudent}, nil, nil)
	return &resp, nil
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	u := s.uows.New()
	user, err := users(u).FirstWhere(ctx, uow.Where("normalized_email = ?", authModel.NormalizeKey(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPasswordHash(user.PasswordHash, req.Password) {
		return nil, apperror.Unauthorized("Invalid email or password")
	}
	return s.issueTokens(ctx, u, user)
}

// LoginGoogle hanya untuk akun yang sudah ada (dicocokkan via google_id atau email).
func (s *AuthService) LoginGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	identity, err := s.google.Verify(req.IDToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("⚠️ Google ID token ditolak")
		return nil, apperror.Unauthorized("Invalid Google ID Token")
	}

	u := s.uows.New()
	user, err := users(u).FirstWhere(ctx, uow.Where("google_id = ?", identity.Subject))
	if err != nil {
		return nil, err
	}
	if user == nil && identity.Email != "" {
		user, err = users(u).FirstWhere(ctx, uow.Where("normalized_email = ?", authModel.NormalizeKey(identity.Email)))
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, apperror.Unauthorized("No account is registered for this Google identity")
	}
	if user.GoogleID == nil {
		sub := identity.Subject
		user.GoogleID = &sub
		user.EmailConfirmed = true
	}
	return s.issueTokens(ctx, u, user)
}

/* ==========================
   REFRESH (rotasi)
========================== */

func (s *AuthService) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (*dto.AuthResponse, error) {
	claims, err := s.tokens.GetPrincipalFromExpiredToken(req.AccessToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid access token")
	}

	u := s.uows.New()
	user, err := users(u).GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasValidRefreshToken(s.tokens.HashRefreshToken(req.RefreshToken), s.now().UTC()) {
		return nil, apperror.Unauthorized("Invalid or expired refresh token")
	}
	return s.issueTokens(ctx, u, user)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	u := s.uows.New()
	user, err := users(u).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("User", userID)
	}
	user.ClearRefreshToken()
	users(u).Update(user)
	_, err = u.Complete(ctx, userID)
	return err
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error {
	u := s.uows.New()
	user, err := users(u).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("User", userID)
	}
	if !CheckPasswordHash(user.PasswordHash, req.CurrentPassword) {
		return apperror.ValidationField("current_password", "Current password is incorrect")
	}
	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return apperror.Internal(err, "Password hashing failed")
	}
	user.PasswordHash = hash
	user.SecurityStamp = uuid.NewString()
	user.ClearRefreshToken()
	users(u).Update(user)
	_, err = u.Complete(ctx, userID)
	return err
}

func (s *AuthService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	u := s.uows.New()
	user, err := users(u).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("User", userID)
	}
	roles, err := RolesOf(ctx, u, user.ID)
	if err != nil {
		return nil, err
	}
	studentID, teacherID, err := profileLinks(ctx, u, user.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, roles, studentID, teacherID)
	return &resp, nil
}

// CleanupExpiredRefreshTokens mengosongkan refresh token yang sudah lewat expiry.
// Dijalankan cron dengan aktor sistem.
func (s *AuthService) CleanupExpiredRefreshTokens(ctx context.Context) (int, error) {
	u := s.uows.New()
	expired, err := users(u).Find(ctx,
		uow.Where("refresh_token_hash IS NOT NULL"),
		uow.Where("refresh_token_expiry_time < ?", s.now().UTC()),
	)
	if err != nil {
		return 0, err
	}
	for i := range expired {
		expired[i].ClearRefreshToken()
		users(u).Update(&expired[i])
	}
	if _, err := u.Complete(ctx, ""); err != nil {
		return 0, err
	}
	return len(expired), nil
}

func (s *AuthService) issueTokens(ctx context.Context, u *uow.UnitOfWork, user *authModel.UserModel) (*dto.AuthResponse, error) {
	roles, err := RolesOf(ctx, u, user.ID)
	if err != nil {
		return nil, err
	}
	studentID, teacherID, err := profileLinks(ctx, u, user.ID)
	if err != nil {
		return nil, err
	}

	var opts []ClaimOption
	if studentID != nil {
		opts = append(opts, WithStudentID(*studentID))
	}
	if teacherID != nil {
		opts = append(opts, WithTeacherID(*teacherID))
	}
	access, exp, err := s.tokens.CreateToken(user, roles, opts...)
	if err != nil {
		return nil, apperror.Internal(err, "Failed to create access token")
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, apperror.Internal(err, "Failed to create refresh token")
	}

	now := s.now().UTC()
	hash := s.tokens.HashRefreshToken(refresh)
	expiry := now.Add(s.tokens.RefreshExpiry())
	user.RefreshTokenHash = &hash
	user.RefreshTokenExpiryTime = &expiry
	user.LastLoginAt = &now
	users(u).Update(user)
	if _, err := u.Complete(ctx, user.ID); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    tokenTypeBearer,
		ExpiresAt:    exp,
		User:         dto.NewUserResponse(user, roles, studentID, teacherID),
	}, nil
}

/* ==========================
   Roles & profil
========================== */

// RolesOf mengembalikan nama role aktif milik user.
func RolesOf(ctx context.Context, u *uow.UnitOfWork, userID string) ([]string, error) {
	var names []string
	err := uow.Use[authModel.RoleModel, uint](u).Query(ctx).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Pluck("roles.name", &names).Error
	return names, err
}

// FindRole by nama (case-insensitive).
func FindRole(ctx context.Context, u *uow.UnitOfWork, name string) (*authModel.RoleModel, error) {
	return uow.Use[authModel.RoleModel, uint](u).FirstWhere(ctx,
		uow.Where("normalized_name = ?", authModel.NormalizeKey(name)))
}

// AssignRole men-stage relasi user-role bila belum ada. Role harus sudah ada.
func AssignRole(ctx context.Context, u *uow.UnitOfWork, userID, roleName string) error {
	role, err := FindRole(ctx, u, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return apperror.Internal(nil, "Role "+roleName+" belum tersedia")
	}
	links := uow.Use[authModel.UserRoleModel, string](u)
	exists, err := links.Any(ctx, uow.Where("user_id = ? AND role_id = ?", userID, role.ID))
	if err != nil {
		return err
	}
	if !exists {
		links.Add(&authModel.UserRoleModel{UserID: userID, RoleID: role.ID})
	}
	return nil
}

func profileLinks(ctx context.Context, u *uow.UnitOfWork, userID string) (studentID, teacherID *uint, err error) {
	st, err := uow.Use[studentModel.StudentModel, uint](u).FirstWhere(ctx, uow.Where("user_id = ?", userID))
	if err != nil {
		return nil, nil, err
	}
	if st != nil {
		studentID = &st.ID
	}
	tc, err := uow.Use[teacherModel.TeacherModel, uint](u).FirstWhere(ctx, uow.Where("user_id = ?", userID))
	if err != nil {
		return nil, nil, err
	}
	if tc != nil {
		teacherID = &tc.ID
	}
	return studentID, teacherID, nil
}
