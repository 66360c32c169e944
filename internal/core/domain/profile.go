package domain

import "time"

type Gender string

const (
	GenderFemale Gender = "F"
	GenderMale   Gender = "M"
)

type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

type PractitionerType string

const (
	PractitionerGeneral     PractitionerType = "general"
	PractitionerSpecialized PractitionerType = "specialized"
)

type Availability string

const (
	AvailabilityBusy Availability = "busy"
	AvailabilityFree Availability = "free"
)

// Profile is the full staff record returned to clients after login.
// Details always matches Role.
type Profile struct {
	ID        int64
	Username  string
	Role      Role
	Status    Status
	CreatedAt time.Time

	FirstName       string
	PaternalSurname string
	MaternalSurname string
	Email           string
	NationalID      string
	Phone           string
	Gender          Gender
	HireDate        *time.Time

	Details RoleDetails
}

// RoleDetails is the role-specific part of a Profile. The set of
// implementations is closed: PractitionerDetails, FrontDeskDetails and
// AdministratorDetails.
type RoleDetails interface {
	Role() Role
	isRoleDetails()
}

// PractitionerDetails holds the practitioner table columns plus the optional
// specialty description.
type PractitionerDetails struct {
	SpecialtyID          *int64
	LicenseCode          *string
	Type                 *PractitionerType
	BirthDate            *time.Time
	Availability         *Availability
	Shift                *Shift
	SpecialtyDescription *string
}

func (PractitionerDetails) Role() Role { return RolePractitioner }
func (PractitionerDetails) isRoleDetails() {}

type FrontDeskDetails struct {
	Shift *Shift
}

func (FrontDeskDetails) Role() Role { return RoleFrontDesk }
func (FrontDeskDetails) isRoleDetails() {}

type AdministratorDetails struct{}

func (AdministratorDetails) Role() Role { return RoleAdministrator }
func (AdministratorDetails) isRoleDetails() {}

// Practitioner returns the practitioner details when the profile belongs to a practitioner.
func (p *Profile) Practitioner() (PractitionerDetails, bool) {
	d, ok := p.Details.(PractitionerDetails)
	return d, ok
}

// FrontDesk returns the front-desk details when the profile belongs to front-desk staff.
func (p *Profile) FrontDesk() (FrontDeskDetails, bool) {
	d, ok := p.Details.(FrontDeskDetails)
	return d, ok
}
