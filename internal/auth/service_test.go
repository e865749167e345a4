package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	passwords map[string]string // email -> password hash
	userIDs   map[string]string // email -> userID
	usersByID map[int64]*User
	repoError error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockUserRepository{
		passwords: map[string]string{
			"dev@mail.com":     string(hashedPassword),
			"manager@mail.com": string(hashedPassword),
		},
		userIDs: map[string]string{
			"dev@mail.com":     "1",
			"manager@mail.com": "2",
		},
		usersByID: map[int64]*User{
			1: {ID: 1, Email: "dev@mail.com", Role: "employee", Permissions: PermissionsForRole("employee")},
			2: {ID: 2, Email: "manager@mail.com", Role: "manager", Permissions: PermissionsForRole("manager")},
		},
	}
}

func (m *mockUserRepository) GetPasswordForEmail(email string) (string, string, error) {
	if m.repoError != nil {
		return "", "", m.repoError
	}
	hash, ok := m.passwords[email]
	if !ok {
		return "", "", errors.New("user not found")
	}
	return hash, m.userIDs[email], nil
}

func (m *mockUserRepository) GetAuthUser(userID int64) (*User, error) {
	if m.repoError != nil {
		return nil, m.repoError
	}
	user, ok := m.usersByID[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		repo     *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		repo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("access-secret-at-least-32-chars!", "refresh-secret-at-least-32-char!",
			15*time.Minute, 7*24*time.Hour)
		service = NewService(repo, tokenGen, bcrypt.MinCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("should return a token pair for valid credentials", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "dev@mail.com", Password: "correct_password"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should reject a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{Email: "dev@mail.com", Password: "wrong_password"})
			gomega.Expect(errors.Is(err, ErrInvalidCredentials)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject an unknown email without leaking its absence", func() {
			_, err := service.Authenticate(LoginDTO{Email: "nobody@mail.com", Password: "correct_password"})
			gomega.Expect(errors.Is(err, ErrInvalidCredentials)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a malformed login payload", func() {
			_, err := service.Authenticate(LoginDTO{Email: "", Password: ""})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("token validation", func() {
		ginkgo.It("should validate a freshly issued access token", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "dev@mail.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("1"))
			gomega.Expect(claims.Email).To(gomega.Equal("dev@mail.com"))
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject an expired token", func() {
			expiredGen := NewJWTTokenGenerator("access-secret-at-least-32-chars!", "refresh-secret-at-least-32-char!",
				-time.Minute, 7*24*time.Hour)
			token, err := expiredGen.GenerateAccessToken("1", "dev@mail.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			gomega.Expect(errors.Is(err, ErrTokenExpired)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("some-other-secret-32-characters!", "refresh-secret-at-least-32-char!",
				15*time.Minute, 7*24*time.Hour)
			token, err := otherGen.GenerateAccessToken("1", "dev@mail.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			gomega.Expect(errors.Is(err, ErrInvalidToken)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should rotate the pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{Email: "manager@mail.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			rotated, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rotated.AccessToken).ToNot(gomega.BeEmpty())

			claims, err := service.ValidateAccessToken(rotated.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("2"))
		})

		ginkgo.It("should reject an invalid refresh token", func() {
			_, err := service.RefreshTokens("bogus")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("PermissionsForRole", func() {
		ginkgo.It("should give managers the project and team permissions", func() {
			perms := PermissionsForRole("manager")
			gomega.Expect(perms).To(gomega.ContainElement(PermissionManageProjects))
			gomega.Expect(perms).To(gomega.ContainElement(PermissionAssignTeam))
			gomega.Expect(perms).ToNot(gomega.ContainElement(PermissionAdmin))
		})

		ginkgo.It("should keep employees on the base set", func() {
			perms := PermissionsForRole("employee")
			gomega.Expect(perms).To(gomega.ContainElement(PermissionViewProjects))
			gomega.Expect(perms).ToNot(gomega.ContainElement(PermissionManageProjects))
		})

		ginkgo.It("should grant admin the admin permissions", func() {
			perms := PermissionsForRole("admin")
			gomega.Expect(perms).To(gomega.ContainElement(PermissionAdmin))
		})
	})

	ginkgo.Describe("HashPassword", func() {
		ginkgo.It("should produce a verifiable bcrypt hash", func() {
			hash, err := service.HashPassword("s3cret-password")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(VerifyPassword(hash, "s3cret-password")).To(gomega.Succeed())
			gomega.Expect(VerifyPassword(hash, "other")).ToNot(gomega.Succeed())
		})
	})
})
