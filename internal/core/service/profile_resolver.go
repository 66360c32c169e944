package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

// ProfileResolver picks the profile lookup that matches an identity's role.
type ProfileResolver struct {
	repo   ports.ProfileRepository
	tracer trace.Tracer
	log    zerolog.Logger
}

// ResolverOption customises a ProfileResolver.
type ResolverOption func(*ProfileResolver)

// WithResolverTracing records resolve spans on tp instead of the global provider.
func WithResolverTracing(tp trace.TracerProvider) ResolverOption {
	return func(r *ProfileResolver) { r.tracer = newTracer(tp) }
}

func NewProfileResolver(repo ports.ProfileRepository, log zerolog.Logger, opts ...ResolverOption) *ProfileResolver {
	r := &ProfileResolver{repo: repo, tracer: newTracer(nil), log: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the profile of identityID for role.
//
// A role outside the three known values yields domain.ErrUnknownRole; a
// missing role-table row yields domain.ErrProfileNotFound. Both are data
// integrity faults and are logged here.
func (r *ProfileResolver) Resolve(ctx context.Context, identityID int64, role domain.Role) (_ *domain.Profile, err error) {
	ctx, span := r.tracer.Start(ctx, "profile.resolve")
	defer func() { endSpan(span, err) }()
	span.SetAttributes(attribute.Int64("identity.id", identityID), attribute.String("identity.role", string(role)))

	var profile *domain.Profile
	switch role {
	case domain.RolePractitioner:
		profile, err = r.practitioner(ctx, identityID)
	case domain.RoleFrontDesk:
		profile, err = r.frontDesk(ctx, identityID)
	case domain.RoleAdministrator:
		profile, err = r.administrator(ctx, identityID)
	default:
		r.log.Error().Int64("identity_id", identityID).Str("role", string(role)).Msg("identity has unknown role")
		return nil, fmt.Errorf("resolve profile: %w: %q", domain.ErrUnknownRole, role)
	}

	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			r.log.Error().Int64("identity_id", identityID).Str("role", string(role)).Msg("identity has no matching role profile")
			return nil, fmt.Errorf("resolve profile: %w", domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("resolve profile: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return profile, nil
}

func (r *ProfileResolver) practitioner(ctx context.Context, id int64) (*domain.Profile, error) {
	row, err := r.repo.FindPractitionerProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p := personProfile(row.PersonRow, domain.RolePractitioner)
	p.Details = domain.PractitionerDetails{
		SpecialtyID:          row.SpecialtyID,
		LicenseCode:          row.LicenseCode,
		Type:                 enumPtr[domain.PractitionerType](row.PractitionerType),
		BirthDate:            row.BirthDate,
		Availability:         enumPtr[domain.Availability](row.Availability),
		Shift:                enumPtr[domain.Shift](row.Shift),
		SpecialtyDescription: row.SpecialtyDescription,
	}
	return p, nil
}

func (r *ProfileResolver) frontDesk(ctx context.Context, id int64) (*domain.Profile, error) {
	row, err := r.repo.FindFrontDeskProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p := personProfile(row.PersonRow, domain.RoleFrontDesk)
	p.Details = domain.FrontDeskDetails{Shift: enumPtr[domain.Shift](row.Shift)}
	return p, nil
}

func (r *ProfileResolver) administrator(ctx context.Context, id int64) (*domain.Profile, error) {
	row, err := r.repo.FindAdministratorProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p := personProfile(row.PersonRow, domain.RoleAdministrator)
	p.Details = domain.AdministratorDetails{}
	return p, nil
}

// personProfile maps the shared columns. The role comes from the dispatch,
// not from the row, so Details and Role can never disagree.
func personProfile(row ports.PersonRow, role domain.Role) *domain.Profile {
	return &domain.Profile{
		ID:              row.IdentityID,
		Username:        row.Username,
		Role:            role,
		Status:          domain.Status(row.Status),
		CreatedAt:       row.CreatedAt,
		FirstName:       row.FirstName,
		PaternalSurname: row.PaternalSurname,
		MaternalSurname: row.MaternalSurname,
		Email:           row.Email,
		NationalID:      row.NationalID,
		Phone:           row.Phone,
		Gender:          domain.Gender(row.Gender),
		HireDate:        row.HireDate,
	}
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}
