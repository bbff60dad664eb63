package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 身份解析错误
// 两者都是终态错误，直接上抛给调用方，不做重试
var (
	ErrUnauthenticated    = errors.New("未认证或令牌无效")
	ErrProfileNotFound    = errors.New("用户未关联租户档案")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// Service 身份与租户解析服务
type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

// NewService 创建认证服务
func NewService(db *gorm.DB, jwtService *JWTService) *Service {
	return &Service{db: db, jwt: jwtService}
}

// Authenticate 从 Authorization 头解析调用方身份与租户归属
// 凭证缺失/无效返回 ErrUnauthenticated，无租户档案返回 ErrProfileNotFound
func (s *Service) Authenticate(ctx context.Context, authHeader string) (*Identity, error) {
	token := ExtractTokenFromBearer(authHeader)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.jwt.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.TokenType != "access" {
		return nil, fmt.Errorf("%w: 令牌类型错误", ErrUnauthenticated)
	}

	// 令牌声明之外再校验数据库中的用户状态与租户归属
	var user User
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", claims.UserID, true).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if user.TenantID == nil || strings.TrimSpace(*user.TenantID) == "" {
		return nil, ErrProfileNotFound
	}

	return &Identity{
		UserID:   user.ID,
		TenantID: *user.TenantID,
		Role:     user.Role,
	}, nil
}

// Login 邮箱密码登录，成功返回令牌对
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, *User, error) {
	var user User
	if err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tenantID := ""
	if user.TenantID != nil {
		tenantID = *user.TenantID
	}

	pair, err := s.jwt.GenerateTokenPair(user.ID, tenantID, user.Role)
	if err != nil {
		return nil, nil, err
	}

	return pair, &user, nil
}

// Logout 登出：撤销当前访问令牌（加入黑名单直到自然过期）
// 未配置 Redis 时撤销是空操作，令牌依靠自身过期时间失效
func (s *Service) Logout(ctx context.Context, authHeader string) error {
	token := ExtractTokenFromBearer(authHeader)
	if token == "" {
		return ErrUnauthenticated
	}
	return s.jwt.RevokeToken(ctx, token)
}

// Refresh 用刷新令牌换取新的令牌对
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.TokenType != "refresh" {
		return nil, fmt.Errorf("%w: 需要刷新令牌", ErrUnauthenticated)
	}

	return s.jwt.GenerateTokenPair(claims.UserID, claims.TenantID, claims.Role)
}

// HashPassword 生成密码哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("生成密码哈希失败: %w", err)
	}
	return string(hash), nil
}
