package user

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/localhive/event-catalog/internal/errdef"

	"github.com/localhive/event-catalog/pkg/model"
	"github.com/go-mail/mail"
	"golang.org/x/crypto/argon2"
)

func NewService(uiUrl string, repository *repository, dialer dialer) *Service {
	return &Service{
		uiUrl:      uiUrl,
		repository: repository,
		dialer:     dialer,
	}
}

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type Service struct {
	uiUrl      string
	repository *repository
	dialer     dialer
}

func (s Service) SignUp(ctx context.Context, email, password, displayName string) (*model.User, error) {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %v", err)
	}

	user := &model.User{
		Email:       email,
		DisplayName: displayName,
		EmailToken:  uuid.New(),
		Password:    hashedPassword,
	}

	err = s.repository.create(ctx, user)
	if err != nil {
		return nil, err
	}

	err = s.sendValidationEmail(user)
	if err != nil {
		return nil, fmt.Errorf("failed to send validation email: %v", err)
	}

	return user, nil
}

func (s Service) sendValidationEmail(user *model.User) error {
	m := mail.NewMessage()
	m.SetHeader("From", "LocalHive <no-reply@localhive.org>")
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "Welcome to LocalHive")
	link := fmt.Sprintf("%s/validate/%s", s.uiUrl, user.EmailToken)
	body := fmt.Sprintf("Hello, please click the below link to verify your email.<br/>%s", link)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s Service) ValidateEmail(ctx context.Context, token uuid.UUID) error {
	user, err := s.repository.findByEmailToken(ctx, token)
	if err != nil {
		return err
	}

	user.Validated = true
	return s.repository.save(ctx, user)
}

func (s Service) SignIn(ctx context.Context, email string, password string) (*model.User, error) {
	unauthorizedError := "invalid email and password combination"

	user, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil, errdef.NewUnauthorized("%s", unauthorizedError)
		}
		return nil, err
	}

	match, err := comparePasswords(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("password comparison failed: %v", err)
	}

	if !match {
		return nil, errdef.NewUnauthorized("%s", unauthorizedError)
	}

	if !user.Validated {
		return nil, errdef.NewForbidden("account not validated")
	}

	return user, nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.User, error) {
	return s.repository.findById(ctx, id)
}

const (
	argonIterations  = 3
	argonMemory      = 128 * 1024
	argonParallelism = 4
	argonKeyLength   = 32
	argonSaltLength  = 16
)

func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s", argon2.Version, argonMemory, argonIterations, argonParallelism, encodedSalt, encodedHash), nil
}

func comparePasswords(storedPassword string, suppliedPassword string) (bool, error) {
	parts := strings.Split(storedPassword, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("invalid password hash")
	}

	var memory, iterations uint32
	var parallelism uint8
	_, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism)
	if err != nil {
		return false, fmt.Errorf("invalid password parameters: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %v", err)
	}

	storedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %v", err)
	}

	hash := argon2.IDKey([]byte(suppliedPassword), salt, iterations, memory, parallelism, uint32(len(storedHash)))

	return subtle.ConstantTimeCompare(hash, storedHash) == 1, nil
}
