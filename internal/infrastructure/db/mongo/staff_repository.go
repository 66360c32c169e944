package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

const (
	identitiesCollection     = "identities"
	practitionersCollection  = "practitioners"
	frontDeskCollection      = "front_desk_staff"
	administratorsCollection = "administrators"
	specialtiesCollection    = "specialties"
)

// StaffRepository reads identities and staff profiles from MongoDB. Each
// role keeps its staff documents in its own collection, keyed by identity_id.
type StaffRepository struct {
	db      *mongo.Database
	timeout time.Duration
}

func NewStaffRepository(db *mongo.Database, timeout time.Duration) *StaffRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &StaffRepository{db: db, timeout: timeout}
}

type identityDoc struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	Role         string    `bson:"role"`
	Status       string    `bson:"status"`
	CreatedAt    time.Time `bson:"created_at"`
}

type staffDoc struct {
	IdentityID      int64      `bson:"identity_id"`
	FirstName       string     `bson:"first_name"`
	PaternalSurname string     `bson:"paternal_surname"`
	MaternalSurname string     `bson:"maternal_surname,omitempty"`
	Email           string     `bson:"email"`
	NationalID      string     `bson:"national_id"`
	Phone           string     `bson:"phone,omitempty"`
	Gender          string     `bson:"gender"`
	HireDate        *time.Time `bson:"hire_date,omitempty"`

	// practitioner
	SpecialtyID      *int64     `bson:"specialty_id,omitempty"`
	LicenseCode      *string    `bson:"license_code,omitempty"`
	PractitionerType *string    `bson:"practitioner_type,omitempty"`
	BirthDate        *time.Time `bson:"birth_date,omitempty"`
	Availability     *string    `bson:"availability,omitempty"`

	// practitioner and front desk
	Shift *string `bson:"shift,omitempty"`
}

type specialtyDoc struct {
	ID          int64  `bson:"_id"`
	Description string `bson:"description"`
}

func (r *StaffRepository) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc identityDoc
	if err := r.db.Collection(identitiesCollection).FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		return nil, wrapFindErr("find identity", err)
	}
	return &domain.Identity{
		ID:           doc.ID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Role:         domain.Role(doc.Role),
		Status:       domain.Status(doc.Status),
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}

func (r *StaffRepository) FindPractitionerProfile(ctx context.Context, identityID int64) (*ports.PractitionerRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	identity, staff, err := r.findStaff(ctx, practitionersCollection, identityID)
	if err != nil {
		return nil, fmt.Errorf("find practitioner profile: %w", err)
	}

	row := &ports.PractitionerRow{
		PersonRow:        personRow(identity, staff),
		SpecialtyID:      staff.SpecialtyID,
		LicenseCode:      staff.LicenseCode,
		PractitionerType: staff.PractitionerType,
		BirthDate:        utcPtr(staff.BirthDate),
		Availability:     staff.Availability,
		Shift:            staff.Shift,
	}

	if staff.SpecialtyID != nil {
		var sp specialtyDoc
		err := r.db.Collection(specialtiesCollection).FindOne(ctx, bson.M{"_id": *staff.SpecialtyID}).Decode(&sp)
		switch {
		case err == nil:
			row.SpecialtyDescription = &sp.Description
		case errors.Is(err, mongo.ErrNoDocuments):
			// dangling reference, same as a LEFT JOIN miss
		default:
			return nil, fmt.Errorf("find specialty: %w", err)
		}
	}
	return row, nil
}

func (r *StaffRepository) FindFrontDeskProfile(ctx context.Context, identityID int64) (*ports.FrontDeskRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	identity, staff, err := r.findStaff(ctx, frontDeskCollection, identityID)
	if err != nil {
		return nil, fmt.Errorf("find front desk profile: %w", err)
	}
	return &ports.FrontDeskRow{PersonRow: personRow(identity, staff), Shift: staff.Shift}, nil
}

func (r *StaffRepository) FindAdministratorProfile(ctx context.Context, identityID int64) (*ports.AdministratorRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	identity, staff, err := r.findStaff(ctx, administratorsCollection, identityID)
	if err != nil {
		return nil, fmt.Errorf("find administrator profile: %w", err)
	}
	return &ports.AdministratorRow{PersonRow: personRow(identity, staff)}, nil
}

// Ping reports whether the deployment is reachable.
func (r *StaffRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.db.Client().Ping(ctx, readpref.Primary())
}

func (r *StaffRepository) findStaff(ctx context.Context, collection string, identityID int64) (*identityDoc, *staffDoc, error) {
	var identity identityDoc
	if err := r.db.Collection(identitiesCollection).FindOne(ctx, bson.M{"_id": identityID}).Decode(&identity); err != nil {
		return nil, nil, wrapFindErr("identity", err)
	}
	var staff staffDoc
	if err := r.db.Collection(collection).FindOne(ctx, bson.M{"identity_id": identityID}).Decode(&staff); err != nil {
		return nil, nil, wrapFindErr(collection, err)
	}
	return &identity, &staff, nil
}

func personRow(identity *identityDoc, staff *staffDoc) ports.PersonRow {
	return ports.PersonRow{
		IdentityID:      identity.ID,
		Username:        identity.Username,
		Role:            identity.Role,
		Status:          identity.Status,
		CreatedAt:       identity.CreatedAt.UTC(),
		FirstName:       staff.FirstName,
		PaternalSurname: staff.PaternalSurname,
		MaternalSurname: staff.MaternalSurname,
		Email:           staff.Email,
		NationalID:      staff.NationalID,
		Phone:           staff.Phone,
		Gender:          staff.Gender,
		HireDate:        utcPtr(staff.HireDate),
	}
}

func wrapFindErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrRecordNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
