package service

import (
	"context"
	"errors"
	"time"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

var errStoreDown = errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")

type stubIdentityRepo struct {
	identities map[string]*domain.Identity
	err        error
	calls      int
}

func newStubIdentityRepo(identities ...*domain.Identity) *stubIdentityRepo {
	r := &stubIdentityRepo{identities: make(map[string]*domain.Identity)}
	for _, i := range identities {
		r.identities[i.Username] = i
	}
	return r
}

func (r *stubIdentityRepo) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	i, ok := r.identities[username]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	clone := *i
	return &clone, nil
}

type stubProfileRepo struct {
	practitioners  map[int64]*ports.PractitionerRow
	frontDesk      map[int64]*ports.FrontDeskRow
	administrators map[int64]*ports.AdministratorRow
	err            error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{
		practitioners:  make(map[int64]*ports.PractitionerRow),
		frontDesk:      make(map[int64]*ports.FrontDeskRow),
		administrators: make(map[int64]*ports.AdministratorRow),
	}
}

func (r *stubProfileRepo) FindPractitionerProfile(_ context.Context, id int64) (*ports.PractitionerRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.practitioners[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return row, nil
}

func (r *stubProfileRepo) FindFrontDeskProfile(_ context.Context, id int64) (*ports.FrontDeskRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.frontDesk[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return row, nil
}

func (r *stubProfileRepo) FindAdministratorProfile(_ context.Context, id int64) (*ports.AdministratorRow, error) {
	if r.err != nil {
		return nil, r.err
	}
	row, ok := r.administrators[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return row, nil
}

type stubRevocations struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{revoked: make(map[string]time.Time)}
}

func (s *stubRevocations) Revoke(_ context.Context, jti string, until time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.revoked[jti] = until
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.revoked[jti]
	return ok, nil
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func person(id int64, username string, role domain.Role) ports.PersonRow {
	return ports.PersonRow{
		IdentityID:      id,
		Username:        username,
		Role:            string(role),
		Status:          string(domain.StatusActive),
		CreatedAt:       time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC),
		FirstName:       "Ana",
		PaternalSurname: "Smith",
		MaternalSurname: "López",
		Email:           username + "@clinic.test",
		NationalID:      "SMLA800101MDFXXX01",
		Phone:           "5550001111",
		Gender:          string(domain.GenderFemale),
		HireDate:        datePtr(2020, time.June, 1),
	}
}

// seedProfiles stores one row per role: 1 practitioner, 2 front desk, 3 administrator.
func seedProfiles(repo *stubProfileRepo) {
	repo.practitioners[1] = &ports.PractitionerRow{
		PersonRow:            person(1, "drsmith", domain.RolePractitioner),
		SpecialtyID:          int64Ptr(4),
		LicenseCode:          strPtr("VET-1234"),
		PractitionerType:     strPtr(string(domain.PractitionerSpecialized)),
		BirthDate:            datePtr(1980, time.January, 1),
		Availability:         strPtr(string(domain.AvailabilityFree)),
		Shift:                strPtr(string(domain.ShiftMorning)),
		SpecialtyDescription: strPtr("Dermatology"),
	}
	repo.frontDesk[2] = &ports.FrontDeskRow{
		PersonRow: person(2, "desk", domain.RoleFrontDesk),
		Shift:     strPtr(string(domain.ShiftNight)),
	}
	repo.administrators[3] = &ports.AdministratorRow{PersonRow: person(3, "admin", domain.RoleAdministrator)}
}
