package handler

import "time"

// ErrorResponse is the envelope rendered for every 4xx/5xx response.
type ErrorResponse struct {
	Error   string `json:"error" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Password string `json:"password" validate:"required,min=3"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        profileResponse `json:"user"`
}

// profileResponse is the flat wire form of a profile. Every field is always
// present; fields belonging to another role are null.
type profileResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	FirstName       string    `json:"first_name"`
	PaternalSurname string    `json:"paternal_surname"`
	MaternalSurname string    `json:"maternal_surname"`
	Email           string    `json:"email"`
	NationalID      string    `json:"national_id"`
	Phone           string    `json:"phone"`
	Gender          string    `json:"gender"`
	HireDate        *string   `json:"hire_date"`

	// practitioner
	SpecialtyID          *int64  `json:"specialty_id"`
	LicenseCode          *string `json:"license_code"`
	PractitionerType     *string `json:"practitioner_type"`
	BirthDate            *string `json:"birth_date"`
	Availability         *string `json:"availability"`
	Shift                *string `json:"shift"`
	SpecialtyDescription *string `json:"specialty_description"`

	// front desk
	FrontDeskShift *string `json:"front_desk_shift"`
}

type verifyUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type verifyResponse struct {
	Valid bool       `json:"valid"`
	User  verifyUser `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
