package auth

import (
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	PermissionAdmin             = "admin"
	PermissionManageUsers       = "manage_users"
	PermissionManageProjects    = "manage_projects"
	PermissionAssignTeam        = "assign_team"
	PermissionViewWorkload      = "view_workload"
	PermissionManageInitiatives = "manage_initiatives"
	PermissionViewProjects      = "view_projects"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetAuthUser(userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string, email string) (token string, err error)
	GenerateRefreshToken(userID string, email string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// User is the authenticated principal carried in the request context.
// Permissions are derived from the role at load time.
type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) IsManager() bool {
	return u.HasPermission(PermissionManageProjects)
}

func (u *User) IsAdmin() bool {
	return u.HasPermission(PermissionAdmin)
}

// PermissionsForRole maps the fixed role set onto permissions. Roles are
// polymorphic only in the permissions they unlock.
func PermissionsForRole(role string) []string {
	switch role {
	case userDatamodel.RoleAdmin:
		return []string{PermissionAdmin, PermissionManageUsers}
	case userDatamodel.RoleProgramManager, userDatamodel.RoleRDManager, userDatamodel.RoleManager:
		return []string{
			PermissionManageProjects,
			PermissionAssignTeam,
			PermissionViewWorkload,
			PermissionManageInitiatives,
			PermissionViewProjects,
		}
	case userDatamodel.RoleEmployee:
		return []string{PermissionViewProjects, PermissionManageInitiatives}
	}
	return nil
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
