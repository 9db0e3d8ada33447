package users

import (
	"testing"

	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdmin(t *testing.T) {
	t.Run("creates admin account with hashed password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		mockRepo.On("PersistUser", mock.MatchedBy(func(req models.CreateUserRequest) bool {
			return req.Username == "admin" && req.Role == "admin"
		}), mock.MatchedBy(func(hash []byte) bool {
			return bcrypt.CompareHashAndPassword(hash, []byte("admin123")) == nil
		})).Return(nil)

		created, err := SeedAdmin(mockRepo, "admin", "admin123", "Administrator")

		assert.NoError(t, err)
		assert.True(t, created)
		mockRepo.AssertExpectations(t)
	})

	t.Run("is idempotent when the account exists", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		mockRepo.On("PersistUser", mock.Anything, mock.Anything).
			Return(custom_error.WrapDBError("Nazwa użytkownika jest już zajęta", "23505"))

		created, err := SeedAdmin(mockRepo, "admin", "admin123", "Administrator")

		assert.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("propagates other persistence errors", func(t *testing.T) {
		mockRepo := new(MockUserRepository)

		mockRepo.On("PersistUser", mock.Anything, mock.Anything).Return(assert.AnError)

		created, err := SeedAdmin(mockRepo, "admin", "admin123", "Administrator")

		assert.Error(t, err)
		assert.False(t, created)
	})
}
