package usecase

import (
	"time"

	"posting-engine/config"
	"posting-engine/internal/apperr"
	"posting-engine/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase issues the caller-identity tokens the engine trusts on every
// mutating call. There is no registration endpoint; caseworkers are seeded.
type AuthUsecase struct {
	repo repository.CaseworkerRepository
}

func NewAuthUsecase(repo repository.CaseworkerRepository) *AuthUsecase {
	return &AuthUsecase{repo: repo}
}

func (u *AuthUsecase) Login(serviceID, password string) (string, error) {
	worker, err := u.repo.GetByServiceID(serviceID)
	if err != nil {
		return "", apperr.New(apperr.Precondition, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(worker.Password), []byte(password)); err != nil {
		return "", apperr.New(apperr.Precondition, "invalid credentials")
	}

	claims := jwt.MapClaims{
		"caseworker_id": worker.ID,
		"service_id":    worker.ServiceID,
		"name":          worker.Name,
		"exp":           time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret())
}
