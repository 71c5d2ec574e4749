package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Registry timestamps carry the Europe/Paris zone. Falls back to UTC when the
// zone database is unavailable rather than refusing to start.
var parisTZ = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}()

func nowParis() time.Time {
	return time.Now().In(parisTZ)
}

// DefaultPersonnage is the free-text status label a new patient starts with.
const DefaultPersonnage = "Inconnu"

// Patient maps to the patients table: a hospitalized individual under a
// user's care. The birth date is three separate string fields, stored as
// submitted; no date validity checking happens anywhere.
type Patient struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	IPP                  string    `db:"ipp" json:"ipp"`
	Surname              string    `db:"surname" json:"surname"`
	FirstName            string    `db:"first_name" json:"first_name"`
	BirthDay             string    `db:"birth_day" json:"birth_day"`
	BirthMonth           string    `db:"birth_month" json:"birth_month"`
	BirthYear            string    `db:"birth_year" json:"birth_year"`
	Personnage           string    `db:"personnage" json:"personnage"`
	EndOfHospitalisation bool      `db:"end_of_hospitalisation" json:"end_of_hospitalisation"`
	FollowUpDays         int       `db:"follow_up_days" json:"follow_up_days"`
	FollowUpsPerDay      int       `db:"follow_ups_per_day" json:"follow_ups_per_day"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UserID               uuid.UUID `db:"user_id" json:"user_id"`
}

// Birthday concatenates the three birth date fields as "{day}/{month}/{year}".
func (p *Patient) Birthday() string {
	return fmt.Sprintf("%s/%s/%s", p.BirthDay, p.BirthMonth, p.BirthYear)
}

// ToView returns the map the patient page templates consume.
func (p *Patient) ToView() map[string]interface{} {
	return map[string]interface{}{
		"id":                     p.ID,
		"ipp":                    p.IPP,
		"surname":                p.Surname,
		"first_name":             p.FirstName,
		"birth_day":              p.BirthDay,
		"birth_month":            p.BirthMonth,
		"birth_year":             p.BirthYear,
		"birthday":               p.Birthday(),
		"personnage":             p.Personnage,
		"end_of_hospitalisation": p.EndOfHospitalisation,
		"follow_up_days":         p.FollowUpDays,
		"follow_ups_per_day":     p.FollowUpsPerDay,
		"created_at":             p.CreatedAt,
	}
}

// Suivi maps to the suivis table: one post-discharge follow-up entry. The
// routed surface never writes these; they exist for the schema and the
// patient detail view.
type Suivi struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FollowUpType string    `db:"follow_up_type" json:"follow_up_type"`
	Evaluation   string    `db:"evaluation" json:"evaluation"`
	DesiredCare  string    `db:"desired_care" json:"desired_care"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
}

// Validation maps to the validations table: the per-patient
// discharge-readiness checklist.
type Validation struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	PresentationValidated bool      `db:"presentation_validated" json:"presentation_validated"`
	HomeReturnValidated   bool      `db:"home_return_validated" json:"home_return_validated"`
	PresentationItem      bool      `db:"presentation_item" json:"presentation_item"`
	NeedItem              bool      `db:"need_item" json:"need_item"`
	HomeItem              bool      `db:"home_item" json:"home_item"`
	TestItem              bool      `db:"test_item" json:"test_item"`
	PatientID             uuid.UUID `db:"patient_id" json:"patient_id"`
}
