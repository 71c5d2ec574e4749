package patient

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/suivicare/suivicare/internal/platform/apperr"
	"github.com/suivicare/suivicare/pkg/names"
)

// Service provides the patient registry operations, always scoped to the
// owning user.
type Service struct {
	patients PatientRepository
}

func NewService(patients PatientRepository) *Service {
	return &Service{patients: patients}
}

// CreateInput carries the add-a-patient form fields.
type CreateInput struct {
	IPP        string
	Surname    string
	FirstName  string
	BirthDay   string
	BirthMonth string
	BirthYear  string
}

// CreatePatient registers a new patient for ownerID. Duplicate detection is
// an exact-tuple check on the normalized fields, done only here, never on
// edit.
func (s *Service) CreatePatient(ctx context.Context, ownerID uuid.UUID, in CreateInput) (*Patient, error) {
	if in.IPP == "" || in.Surname == "" || in.FirstName == "" ||
		in.BirthDay == "" || in.BirthMonth == "" || in.BirthYear == "" {
		return nil, apperr.Validation("Tous les champs sont requis.")
	}

	p := &Patient{
		IPP:                  in.IPP,
		Surname:              names.Surname(in.Surname),
		FirstName:            names.FirstName(in.FirstName),
		BirthDay:             in.BirthDay,
		BirthMonth:           in.BirthMonth,
		BirthYear:            in.BirthYear,
		Personnage:           DefaultPersonnage,
		EndOfHospitalisation: false,
		FollowUpDays:         0,
		FollowUpsPerDay:      0,
		UserID:               ownerID,
	}

	exists, err := s.patients.ExistsTuple(ctx, p)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("Le patient existe déjà")
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPatients returns all of ownerID's patients, or those matching the
// search term as a case-insensitive substring of surname, first name, ipp or
// any birth date field. No pagination.
func (s *Service) ListPatients(ctx context.Context, ownerID uuid.UUID, search string) ([]*Patient, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return s.patients.ListByUser(ctx, ownerID)
	}
	return s.patients.SearchByUser(ctx, ownerID, search)
}

// PatientDetail is the view-patient page model: the patient plus its suivis
// and validation checklist.
type PatientDetail struct {
	Patient     *Patient
	Suivis      []*Suivi
	Validations []*Validation
}

// GetPatientDetail loads one of ownerID's patients with its follow-up
// entries and checklist.
func (s *Service) GetPatientDetail(ctx context.Context, id, ownerID uuid.UUID) (*PatientDetail, error) {
	p, err := s.patients.GetByIDForUser(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	suivis, err := s.patients.ListSuivisByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	validations, err := s.patients.ListValidationsByPatient(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &PatientDetail{Patient: p, Suivis: suivis, Validations: validations}, nil
}

// GetPatient loads one of ownerID's patients.
func (s *Service) GetPatient(ctx context.Context, id, ownerID uuid.UUID) (*Patient, error) {
	return s.patients.GetByIDForUser(ctx, id, ownerID)
}

// EditInput carries the edit-patient form fields. The discharge flag and the
// two counters arrive as raw form strings.
type EditInput struct {
	IPP                  string
	Surname              string
	FirstName            string
	BirthDay             string
	BirthMonth           string
	BirthYear            string
	EndOfHospitalisation string
	FollowUpDays         string
	FollowUpsPerDay      string
}

// parseCounter is deliberately lenient: absent or non-numeric input counts
// as 0. Numeric input is stored as submitted, negatives included.
func parseCounter(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// UpdatePatient edits one of ownerID's patients. The discharge flag is set
// from a literal "1" match; while hospitalisation is ongoing both follow-up
// counters are forced to 0 no matter what was submitted.
func (s *Service) UpdatePatient(ctx context.Context, id, ownerID uuid.UUID, in EditInput) (*Patient, error) {
	if in.IPP == "" || in.Surname == "" || in.FirstName == "" ||
		in.BirthDay == "" || in.BirthMonth == "" || in.BirthYear == "" ||
		in.EndOfHospitalisation == "" {
		return nil, apperr.Validation("Tous les champs sont requis.")
	}

	p, err := s.patients.GetByIDForUser(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	p.IPP = in.IPP
	p.Surname = names.Surname(in.Surname)
	p.FirstName = names.FirstName(in.FirstName)
	p.BirthDay = in.BirthDay
	p.BirthMonth = in.BirthMonth
	p.BirthYear = in.BirthYear
	p.EndOfHospitalisation = in.EndOfHospitalisation == "1"

	if p.EndOfHospitalisation {
		p.FollowUpDays = parseCounter(in.FollowUpDays)
		p.FollowUpsPerDay = parseCounter(in.FollowUpsPerDay)
	} else {
		p.FollowUpDays = 0
		p.FollowUpsPerDay = 0
	}

	if err := s.patients.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePatient removes one of ownerID's patients; suivis and validations
// cascade with it.
func (s *Service) DeletePatient(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.patients.Delete(ctx, id, ownerID)
}
