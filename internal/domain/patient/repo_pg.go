package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suivicare/suivicare/internal/platform/apperr"
	"github.com/suivicare/suivicare/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const patientCols = `id, ipp, surname, first_name, birth_day, birth_month, birth_year,
	personnage, end_of_hospitalisation, follow_up_days, follow_ups_per_day, created_at, user_id`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.IPP, &p.Surname, &p.FirstName,
		&p.BirthDay, &p.BirthMonth, &p.BirthYear,
		&p.Personnage, &p.EndOfHospitalisation, &p.FollowUpDays, &p.FollowUpsPerDay,
		&p.CreatedAt, &p.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Patient introuvable")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = nowParis()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (id, ipp, surname, first_name, birth_day, birth_month, birth_year,
			personnage, end_of_hospitalisation, follow_up_days, follow_ups_per_day, created_at, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		p.ID, p.IPP, p.Surname, p.FirstName, p.BirthDay, p.BirthMonth, p.BirthYear,
		p.Personnage, p.EndOfHospitalisation, p.FollowUpDays, p.FollowUpsPerDay, p.CreatedAt, p.UserID)
	return err
}

func (r *patientRepoPG) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *patientRepoPG) collect(rows pgx.Rows, err error) ([]*Patient, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Patient, error) {
	return r.collect(r.conn(ctx).Query(ctx,
		`SELECT `+patientCols+` FROM patients WHERE user_id = $1`, userID))
}

func (r *patientRepoPG) SearchByUser(ctx context.Context, userID uuid.UUID, term string) ([]*Patient, error) {
	pattern := "%" + term + "%"
	return r.collect(r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patients
		WHERE user_id = $1 AND (
			surname ILIKE $2 OR first_name ILIKE $2 OR ipp ILIKE $2 OR
			birth_day ILIKE $2 OR birth_month ILIKE $2 OR birth_year ILIKE $2
		)`, userID, pattern))
}

func (r *patientRepoPG) ExistsTuple(ctx context.Context, p *Patient) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM patients
			WHERE ipp = $1 AND surname = $2 AND first_name = $3
			  AND birth_day = $4 AND birth_month = $5 AND birth_year = $6
			  AND user_id = $7
		)`,
		p.IPP, p.Surname, p.FirstName, p.BirthDay, p.BirthMonth, p.BirthYear, p.UserID).Scan(&exists)
	return exists, err
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET ipp=$3, surname=$4, first_name=$5,
			birth_day=$6, birth_month=$7, birth_year=$8,
			end_of_hospitalisation=$9, follow_up_days=$10, follow_ups_per_day=$11
		WHERE id = $1 AND user_id = $2`,
		p.ID, p.UserID, p.IPP, p.Surname, p.FirstName,
		p.BirthDay, p.BirthMonth, p.BirthYear,
		p.EndOfHospitalisation, p.FollowUpDays, p.FollowUpsPerDay)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Patient introuvable")
	}
	return nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id, userID uuid.UUID) error {
	// Suivis and validations go with the patient via ON DELETE CASCADE.
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Patient introuvable")
	}
	return nil
}

func (r *patientRepoPG) CreateSuivi(ctx context.Context, s *Suivi) error {
	s.ID = uuid.New()
	s.CreatedAt = nowParis()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO suivis (id, follow_up_type, evaluation, desired_care, created_at, patient_id)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.FollowUpType, s.Evaluation, s.DesiredCare, s.CreatedAt, s.PatientID)
	return err
}

func (r *patientRepoPG) GetSuiviByID(ctx context.Context, id uuid.UUID) (*Suivi, error) {
	var s Suivi
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, follow_up_type, evaluation, desired_care, created_at, patient_id
		FROM suivis WHERE id = $1`, id).
		Scan(&s.ID, &s.FollowUpType, &s.Evaluation, &s.DesiredCare, &s.CreatedAt, &s.PatientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Suivi introuvable")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *patientRepoPG) ListSuivisByPatient(ctx context.Context, patientID uuid.UUID) ([]*Suivi, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, follow_up_type, evaluation, desired_care, created_at, patient_id
		FROM suivis WHERE patient_id = $1 ORDER BY created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Suivi
	for rows.Next() {
		var s Suivi
		if err := rows.Scan(&s.ID, &s.FollowUpType, &s.Evaluation, &s.DesiredCare, &s.CreatedAt, &s.PatientID); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *patientRepoPG) CreateValidation(ctx context.Context, v *Validation) error {
	v.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO validations (id, presentation_validated, home_return_validated,
			presentation_item, need_item, home_item, test_item, patient_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		v.ID, v.PresentationValidated, v.HomeReturnValidated,
		v.PresentationItem, v.NeedItem, v.HomeItem, v.TestItem, v.PatientID)
	return err
}

func (r *patientRepoPG) GetValidationByID(ctx context.Context, id uuid.UUID) (*Validation, error) {
	var v Validation
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, presentation_validated, home_return_validated,
			presentation_item, need_item, home_item, test_item, patient_id
		FROM validations WHERE id = $1`, id).
		Scan(&v.ID, &v.PresentationValidated, &v.HomeReturnValidated,
			&v.PresentationItem, &v.NeedItem, &v.HomeItem, &v.TestItem, &v.PatientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Validation introuvable")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *patientRepoPG) ListValidationsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Validation, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, presentation_validated, home_return_validated,
			presentation_item, need_item, home_item, test_item, patient_id
		FROM validations WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Validation
	for rows.Next() {
		var v Validation
		if err := rows.Scan(&v.ID, &v.PresentationValidated, &v.HomeReturnValidated,
			&v.PresentationItem, &v.NeedItem, &v.HomeItem, &v.TestItem, &v.PatientID); err != nil {
			return nil, err
		}
		items = append(items, &v)
	}
	return items, rows.Err()
}
