package handler

import (
	"time"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Service result → HTTP response ---

func toLoginResponse(r *ports.LoginResult) loginResponse {
	return loginResponse{
		AccessToken: r.Token,
		TokenType:   r.TokenType,
		ExpiresAt:   r.ExpiresAt.UTC(),
		User:        toProfileResponse(r.Profile),
	}
}

func toProfileResponse(p *domain.Profile) profileResponse {
	resp := profileResponse{
		ID:              p.ID,
		Username:        p.Username,
		Role:            string(p.Role),
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt.UTC(),
		FirstName:       p.FirstName,
		PaternalSurname: p.PaternalSurname,
		MaternalSurname: p.MaternalSurname,
		Email:           p.Email,
		NationalID:      p.NationalID,
		Phone:           p.Phone,
		Gender:          string(p.Gender),
		HireDate:        formatDate(p.HireDate),
	}

	switch d := p.Details.(type) {
	case domain.PractitionerDetails:
		resp.SpecialtyID = d.SpecialtyID
		resp.LicenseCode = d.LicenseCode
		resp.PractitionerType = stringOf(d.Type)
		resp.BirthDate = formatDate(d.BirthDate)
		resp.Availability = stringOf(d.Availability)
		resp.Shift = stringOf(d.Shift)
		resp.SpecialtyDescription = d.SpecialtyDescription
	case domain.FrontDeskDetails:
		resp.FrontDeskShift = stringOf(d.Shift)
	}
	return resp
}

func toVerifyResponse(p *domain.Principal) verifyResponse {
	return verifyResponse{
		Valid: true,
		User: verifyUser{
			ID:       p.IdentityID,
			Username: p.Username,
			Role:     string(p.Role),
		},
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func stringOf[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
