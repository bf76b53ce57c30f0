package models

import (
	"strings"
	"time"

	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	pstrings "hireme/pkg/platform/strings"
)

const (
	MaxNameLength  = 50
	MaxBioLength   = 500
	MaxSkillLength = 50
)

// User is a job seeker or employer account.
//
// Invariants:
//   - Email is trimmed, lowercased and unique across the directory
//   - Role never changes after registration
//   - Employers always have a non-empty Company
//   - Company and Website stay empty for job seekers
type User struct {
	ID           id.UserID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         id.Role    `json:"role"`
	Company      string     `json:"company,omitempty"`
	Website      string     `json:"website,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Location     string     `json:"location,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	Skills       []string   `json:"skills"`
	Resume       string     `json:"resume,omitempty"`
	IsActive     bool       `json:"isActive"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Profile holds the self-editable account fields.
type Profile struct {
	Phone    string
	Location string
	Bio      string
	Skills   []string
	Company  string
	Website  string
	Resume   string
}

// NewUser builds an active account. passwordHash must already be hashed.
func NewUser(userID id.UserID, name, email, passwordHash string, role id.Role, profile Profile, now time.Time) (*User, error) {
	u := &User{
		ID:           userID,
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		Phone:        strings.TrimSpace(profile.Phone),
		Location:     strings.TrimSpace(profile.Location),
		Bio:          strings.TrimSpace(profile.Bio),
		Skills:       pstrings.DedupeAndTrim(profile.Skills),
		Resume:       strings.TrimSpace(profile.Resume),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if role == id.RoleEmployer {
		u.Company = strings.TrimSpace(profile.Company)
		u.Website = strings.TrimSpace(profile.Website)
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return u, nil
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) IsEmployer() bool { return u.Role == id.RoleEmployer }

// ProfilePatch lists profile fields to overwrite; nil fields are untouched.
type ProfilePatch struct {
	Name     *string
	Phone    *string
	Location *string
	Bio      *string
	Skills   *[]string
	Company  *string
	Website  *string
	Resume   *string
}

// ApplyProfile overwrites the provided fields. Company and website can only
// be set on employer accounts.
func (u *User) ApplyProfile(p ProfilePatch, now time.Time) error {
	if !u.IsEmployer() && (p.Company != nil || p.Website != nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "only employers have a company profile")
	}

	next := *u
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		next.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Location != nil {
		next.Location = strings.TrimSpace(*p.Location)
	}
	if p.Bio != nil {
		next.Bio = strings.TrimSpace(*p.Bio)
	}
	if p.Skills != nil {
		next.Skills = pstrings.DedupeAndTrim(*p.Skills)
		if next.Skills == nil {
			next.Skills = []string{}
		}
	}
	if p.Company != nil {
		next.Company = strings.TrimSpace(*p.Company)
	}
	if p.Website != nil {
		next.Website = strings.TrimSpace(*p.Website)
	}
	if p.Resume != nil {
		next.Resume = strings.TrimSpace(*p.Resume)
	}
	if err := next.validate(); err != nil {
		return err
	}
	next.UpdatedAt = now
	*u = next
	return nil
}

func (u *User) RecordLogin(now time.Time) {
	u.LastLogin = &now
}

// Deactivate disables the account; it can no longer log in.
func (u *User) Deactivate(now time.Time) {
	u.IsActive = false
	u.UpdatedAt = now
}

func (u *User) validate() error {
	switch {
	case u.Name == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "name is required")
	case len([]rune(u.Name)) > MaxNameLength:
		return dErrors.New(dErrors.CodeInvariantViolation, "name cannot exceed 50 characters")
	case u.Email == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "email is required")
	case !u.Role.IsValid():
		return dErrors.New(dErrors.CodeInvariantViolation, "role must be jobseeker or employer")
	case u.Role == id.RoleEmployer && u.Company == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "company name is required for employers")
	case len([]rune(u.Bio)) > MaxBioLength:
		return dErrors.New(dErrors.CodeInvariantViolation, "bio cannot exceed 500 characters")
	}
	if skill, ok := pstrings.LongerThan(u.Skills, MaxSkillLength); ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "skill is too long: "+skill)
	}
	return nil
}
