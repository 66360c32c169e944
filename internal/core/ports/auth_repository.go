package ports

import (
	"context"
	"time"

	"github.com/vetcare/staff-auth/internal/core/domain"
)

// IdentityRepository reads credential rows. Implementations return
// domain.ErrRecordNotFound when no identity matches.
type IdentityRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
}

// PersonRow is the part of every profile row shared by the three staff tables.
type PersonRow struct {
	IdentityID      int64
	Username        string
	Role            string
	Status          string
	CreatedAt       time.Time
	FirstName       string
	PaternalSurname string
	MaternalSurname string
	Email           string
	NationalID      string
	Phone           string
	Gender          string
	HireDate        *time.Time
}

// PractitionerRow is the identity ⋈ practitioner ⟕ specialty row.
type PractitionerRow struct {
	PersonRow
	SpecialtyID          *int64
	LicenseCode          *string
	PractitionerType     *string
	BirthDate            *time.Time
	Availability         *string
	Shift                *string
	SpecialtyDescription *string
}

// FrontDeskRow is the identity ⋈ front-desk row.
type FrontDeskRow struct {
	PersonRow
	Shift *string
}

// AdministratorRow is the identity ⋈ administrator row.
type AdministratorRow struct {
	PersonRow
}

// ProfileRepository joins an identity with its role table. Each lookup
// returns domain.ErrRecordNotFound when the join yields no row.
type ProfileRepository interface {
	FindPractitionerProfile(ctx context.Context, identityID int64) (*PractitionerRow, error)
	FindFrontDeskProfile(ctx context.Context, identityID int64) (*FrontDeskRow, error)
	FindAdministratorProfile(ctx context.Context, identityID int64) (*AdministratorRow, error)
}

// RevocationStore is an optional denylist of token IDs.
type RevocationStore interface {
	// Revoke records jti as revoked until the token would have expired anyway.
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
