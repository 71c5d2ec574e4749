package patient

import (
	"context"

	"github.com/google/uuid"
)

// PatientRepository defines storage operations for the registry. All patient
// lookups are scoped to the owning user; a patient belonging to someone else
// surfaces as not found.
type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Patient, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Patient, error)
	// SearchByUser matches term as a case-insensitive substring of surname,
	// first name, ipp or any of the three birth date fields.
	SearchByUser(ctx context.Context, userID uuid.UUID, term string) ([]*Patient, error)
	// ExistsTuple reports whether an identical
	// (ipp, surname, first_name, day, month, year, user) tuple is stored.
	ExistsTuple(ctx context.Context, p *Patient) (bool, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// Suivis and validations have no mutating HTTP route; these exist for the
	// detail view and the cascade behavior.
	CreateSuivi(ctx context.Context, s *Suivi) error
	GetSuiviByID(ctx context.Context, id uuid.UUID) (*Suivi, error)
	ListSuivisByPatient(ctx context.Context, patientID uuid.UUID) ([]*Suivi, error)
	CreateValidation(ctx context.Context, v *Validation) error
	GetValidationByID(ctx context.Context, id uuid.UUID) (*Validation, error)
	ListValidationsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Validation, error)
}
