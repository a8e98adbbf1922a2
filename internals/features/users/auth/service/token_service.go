package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"schoolku_backend/internals/configs"
	authModel "schoolku_backend/internals/features/users/auth/model"
)

var (
	ErrMissingSigningKey = errors.New("JWT_KEY belum diset")
	ErrInvalidToken      = errors.New("invalid token")
)

// signingMethod adalah satu-satunya algoritma yang diterima.
var signingMethod = jwt.SigningMethodHS512

// Claims access token.
type Claims struct {
	Email     string   `json:"email"`
	UserName  string   `json:"unique_name"`
	Name      string   `json:"name"`
	Roles     []string `json:"roles"`
	StudentID *uint    `json:"student_id,omitempty"`
	TeacherID *uint    `json:"teacher_id,omitempty"`
	jwt.RegisteredClaims
}

// HasRole case-insensitive.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// ClaimOption menambah klaim profil (student / teacher).
type ClaimOption func(*Claims)

func WithStudentID(id uint) ClaimOption {
	return func(c *Claims) {
		if id > 0 {
			c.StudentID = &id
		}
	}
}

func WithTeacherID(id uint) ClaimOption {
	return func(c *Claims) {
		if id > 0 {
			c.TeacherID = &id
		}
	}
}

type TokenService struct {
	key           []byte
	issuer        string
	audience      string
	expiry        time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewTokenService gagal bila signing key kosong.
func NewTokenService(cfg configs.JWTConfig) (*TokenService, error) {
	if strings.TrimSpace(cfg.Key) == "" {
		return nil, ErrMissingSigningKey
	}
	expiry := time.Duration(cfg.ExpiryMinutes) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}
	refresh := time.Duration(cfg.RefreshExpiryDays) * 24 * time.Hour
	if refresh <= 0 {
		refresh = 7 * 24 * time.Hour
	}
	return &TokenService{
		key:           []byte(cfg.Key),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		expiry:        expiry,
		refreshExpiry: refresh,
		now:           time.Now,
	}, nil
}

// WithClock dipakai test.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *TokenService) Expiry() time.Duration        { return s.expiry }
func (s *TokenService) RefreshExpiry() time.Duration { return s.refreshExpiry }

// CreateToken menandatangani access token untuk user + roles.
func (s *TokenService) CreateToken(user *authModel.UserModel, roles []string, opts ...ClaimOption) (string, time.Time, error) {
	now := s.now().UTC()
	exp := now.Add(s.expiry)

	claims := &Claims{
		Email:    user.Email,
		UserName: user.UserName,
		Name:     user.FullName(),
		Roles:    append([]string(nil), roles...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	for _, opt := range opts {
		opt(claims)
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}
	return signed, exp, nil
}

// GenerateRefreshToken: 32 byte acak, base64. Tidak membawa klaim apa pun.
func (s *TokenService) GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "generate refresh token")
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// HashRefreshToken: yang disimpan di users hanya HMAC-nya.
func (s *TokenService) HashRefreshToken(token string) string {
	m := hmac.New(sha256.New, s.key)
	_, _ = m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

func (s *TokenService) keyFunc(t *jwt.Token) (any, error) {
	if t.Method == nil || t.Method.Alg() != signingMethod.Alg() {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.key, nil
}

// ParseAccessToken memvalidasi signature, exp/nbf, issuer dan audience.
func (s *TokenService) ParseAccessToken(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{signingMethod.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, s.keyFunc)
	if err != nil || !parsed.Valid {
		return nil, errors.Wrap(ErrInvalidToken, errString(err))
	}
	if s.issuer != "" && !claims.VerifyIssuer(s.issuer, true) {
		return nil, errors.Wrap(ErrInvalidToken, "issuer")
	}
	if s.audience != "" && !claims.VerifyAudience(s.audience, true) {
		return nil, errors.Wrap(ErrInvalidToken, "audience")
	}
	return claims, nil
}

// GetPrincipalFromExpiredToken hanya memeriksa signature dan algoritma.
// Khusus flow refresh.
func (s *TokenService) GetPrincipalFromExpiredToken(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(token, claims, s.keyFunc); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.Wrap(ErrInvalidToken, "missing subject")
	}
	return claims, nil
}

func errString(err error) string {
	if err == nil {
		return "invalid"
	}
	return err.Error()
}
