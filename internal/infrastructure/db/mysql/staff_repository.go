package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

const (
	selectIdentity = `SELECT id, username, password_hash, role, status, created_at
FROM identities
WHERE username = ?
LIMIT 1`

	personColumns = `i.id, i.username, i.role, i.status, i.created_at,
	s.first_name, s.paternal_surname, s.maternal_surname, s.email, s.national_id,
	s.phone, s.gender, s.hire_date`

	selectPractitioner = `SELECT ` + personColumns + `,
	s.specialty_id, s.license_code, s.practitioner_type, s.birth_date,
	s.availability, s.shift, sp.description
FROM identities i
JOIN practitioners s ON s.identity_id = i.id
LEFT JOIN specialties sp ON sp.id = s.specialty_id
WHERE i.id = ?
LIMIT 1`

	selectFrontDesk = `SELECT ` + personColumns + `, s.shift
FROM identities i
JOIN front_desk_staff s ON s.identity_id = i.id
WHERE i.id = ?
LIMIT 1`

	selectAdministrator = `SELECT ` + personColumns + `
FROM identities i
JOIN administrators s ON s.identity_id = i.id
WHERE i.id = ?
LIMIT 1`
)

// StaffRepository reads identities and staff profiles from the clinic
// database. It implements ports.IdentityRepository and ports.ProfileRepository.
type StaffRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewStaffRepository(db *sql.DB, timeout time.Duration) *StaffRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &StaffRepository{db: db, timeout: timeout}
}

func (r *StaffRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		i    domain.Identity
		role string
		st   string
	)
	err := r.db.QueryRowContext(ctx, selectIdentity, username).
		Scan(&i.ID, &i.Username, &i.PasswordHash, &role, &st, &i.CreatedAt)
	if err != nil {
		return nil, wrapQueryErr("find identity", err)
	}
	i.Role = domain.Role(role)
	i.Status = domain.Status(st)
	return &i, nil
}

func (r *StaffRepository) FindPractitionerProfile(ctx context.Context, identityID int64) (*ports.PractitionerRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		row          ports.PractitionerRow
		p            personScan
		specialtyID  sql.NullInt64
		license      sql.NullString
		kind         sql.NullString
		birthDate    sql.NullTime
		availability sql.NullString
		shift        sql.NullString
		description  sql.NullString
	)
	dest := append(p.dest(), &specialtyID, &license, &kind, &birthDate, &availability, &shift, &description)
	if err := r.db.QueryRowContext(ctx, selectPractitioner, identityID).Scan(dest...); err != nil {
		return nil, wrapQueryErr("find practitioner profile", err)
	}

	row.PersonRow = p.row()
	row.SpecialtyID = int64Ptr(specialtyID)
	row.LicenseCode = stringPtr(license)
	row.PractitionerType = stringPtr(kind)
	row.BirthDate = timePtr(birthDate)
	row.Availability = stringPtr(availability)
	row.Shift = stringPtr(shift)
	row.SpecialtyDescription = stringPtr(description)
	return &row, nil
}

func (r *StaffRepository) FindFrontDeskProfile(ctx context.Context, identityID int64) (*ports.FrontDeskRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		p     personScan
		shift sql.NullString
	)
	if err := r.db.QueryRowContext(ctx, selectFrontDesk, identityID).Scan(append(p.dest(), &shift)...); err != nil {
		return nil, wrapQueryErr("find front desk profile", err)
	}
	return &ports.FrontDeskRow{PersonRow: p.row(), Shift: stringPtr(shift)}, nil
}

func (r *StaffRepository) FindAdministratorProfile(ctx context.Context, identityID int64) (*ports.AdministratorRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var p personScan
	if err := r.db.QueryRowContext(ctx, selectAdministrator, identityID).Scan(p.dest()...); err != nil {
		return nil, wrapQueryErr("find administrator profile", err)
	}
	return &ports.AdministratorRow{PersonRow: p.row()}, nil
}

// Ping reports whether the database is reachable.
func (r *StaffRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.db.PingContext(ctx)
}

// personScan receives the columns listed in personColumns.
type personScan struct {
	base     ports.PersonRow
	maternal sql.NullString
	phone    sql.NullString
	hireDate sql.NullTime
}

func (p *personScan) dest() []any {
	r := &p.base
	return []any{
		&r.IdentityID, &r.Username, &r.Role, &r.Status, &r.CreatedAt,
		&r.FirstName, &r.PaternalSurname, &p.maternal, &r.Email, &r.NationalID,
		&p.phone, &r.Gender, &p.hireDate,
	}
}

func (p *personScan) row() ports.PersonRow {
	out := p.base
	out.MaternalSurname = p.maternal.String
	out.Phone = p.phone.String
	out.HireDate = timePtr(p.hireDate)
	return out
}

func wrapQueryErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRecordNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
