package users

import (
	"fmt"

	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/models"
	"github.com/ubbbj/laptop-rental/pkg/roles"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin zakłada pierwsze konto administratora. Rejestracja użytkowników
// wymaga zalogowanego admina, więc świeża instalacja potrzebuje tego wejścia.
// Zwraca false bez błędu, gdy konto o tej nazwie już istnieje.
func SeedAdmin(repo UserRepository, username, password, fullname string) (bool, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	req := models.CreateUserRequest{
		Username: username,
		Password: password,
		Fullname: fullname,
		Role:     roles.Admin.String(),
	}

	if err := repo.PersistUser(req, hashedPassword); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin account: %w", err)
	}

	return true, nil
}
