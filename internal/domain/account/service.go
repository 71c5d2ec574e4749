package account

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/suivicare/suivicare/internal/platform/apperr"
	"github.com/suivicare/suivicare/internal/platform/session"
	"github.com/suivicare/suivicare/pkg/names"
)

// Service provides registration, authentication and profile management.
type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Surname      string
	FirstName    string
	Enterprise   string
	Email        string
	Password     string
	Confirmation string
}

// Register creates a new account. The email check is a case-sensitive exact
// match; the password is stored as a bcrypt hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Surname == "" || in.FirstName == "" || in.Enterprise == "" ||
		in.Email == "" || in.Password == "" || in.Confirmation == "" {
		return nil, apperr.Validation("Tous les champs sont requis.")
	}
	if in.Password != in.Confirmation {
		return nil, apperr.Validation("Le mot de passe et la confirmation ne correspondent pas.")
	}

	if existing, err := s.users.GetByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, apperr.Conflict("Cette adresse email est déjà enregistrée.")
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Surname:      names.Surname(in.Surname),
		FirstName:    names.FirstName(in.FirstName),
		Enterprise:   in.Enterprise,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("Tous les champs sont requis.")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound("Cette adresse mail est inconnue")
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Auth("Le mot de passe est incorrect.")
	}
	return u, nil
}

// ResolvePrincipal restores the session principal on every request. A user id
// that no longer exists (deleted account) invalidates the session.
func (s *Service) ResolvePrincipal(ctx context.Context, userID uuid.UUID) (session.Principal, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetProfile returns the user record for display.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, userID)
}

// ProfileInput carries the profile edit form fields.
type ProfileInput struct {
	Surname    string
	FirstName  string
	Enterprise string
	Email      string
}

// UpdateProfile edits the user's own profile. Email uniqueness is not
// re-checked here: two accounts can end up sharing an email after an edit.
// Legacy behavior, kept on purpose.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*User, error) {
	if in.Surname == "" || in.FirstName == "" || in.Enterprise == "" || in.Email == "" {
		return nil, apperr.Validation("Tous les champs sont requis.")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Surname = names.Surname(in.Surname)
	u.FirstName = names.FirstName(in.FirstName)
	u.Enterprise = in.Enterprise
	u.Email = in.Email

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteAccount deletes the user; owned patients and their suivis and
// validations go with it through the cascading foreign keys.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.users.Delete(ctx, userID)
}
