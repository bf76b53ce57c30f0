package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"hireme/internal/users/models"
	"hireme/internal/users/service"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     string   `json:"role"`
	Company  string   `json:"company"`
	Website  string   `json:"website"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Bio      string   `json:"bio"`
	Skills   []string `json:"skills"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = models.NormalizeEmail(r.Email)
	r.Role = strings.TrimSpace(r.Role)
	r.Company = strings.TrimSpace(r.Company)
	r.Website = strings.TrimSpace(r.Website)
	if r.Role == "" {
		r.Role = string(id.RoleJobSeeker)
	}
}

func (r *RegisterRequest) Validate() error {
	var errs dErrors.FieldErrors
	if r.Name == "" || len([]rune(r.Name)) > models.MaxNameLength {
		errs.Add("name", "Name must be between 1 and 50 characters")
	}
	if !govalidator.IsEmail(r.Email) {
		errs.Add("email", "Please provide a valid email")
	}
	if len(r.Password) < service.MinPasswordLength {
		errs.Add("password", "Password must be at least 6 characters long")
	}
	if !id.Role(r.Role).IsValid() {
		errs.Add("role", "Role must be either jobseeker or employer")
	}
	if id.Role(r.Role) == id.RoleEmployer && r.Company == "" {
		errs.Add("company", "Company name is required for employers")
	}
	if r.Website != "" && !govalidator.IsURL(r.Website) {
		errs.Add("website", "Please provide a valid website URL")
	}
	return errs.Err("Validation failed")
}

func (r *RegisterRequest) toInput() service.RegisterInput {
	return service.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     id.Role(r.Role),
		Profile: models.Profile{
			Phone:    r.Phone,
			Location: r.Location,
			Bio:      r.Bio,
			Skills:   r.Skills,
			Company:  r.Company,
			Website:  r.Website,
		},
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = models.NormalizeEmail(r.Email)
}

func (r *LoginRequest) Validate() error {
	var errs dErrors.FieldErrors
	if !govalidator.IsEmail(r.Email) {
		errs.Add("email", "Please provide a valid email")
	}
	if r.Password == "" {
		errs.Add("password", "Password is required")
	}
	return errs.Err("Validation failed")
}

// UpdateProfileRequest is the body of PUT /auth/profile. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name     *string   `json:"name"`
	Phone    *string   `json:"phone"`
	Location *string   `json:"location"`
	Bio      *string   `json:"bio"`
	Skills   *[]string `json:"skills"`
	Company  *string   `json:"company"`
	Website  *string   `json:"website"`
	Resume   *string   `json:"resume"`
}

func (r *UpdateProfileRequest) Normalize() {
	for _, f := range []*string{r.Name, r.Phone, r.Location, r.Bio, r.Company, r.Website, r.Resume} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateProfileRequest) Validate() error {
	var errs dErrors.FieldErrors
	if r.Name != nil && (*r.Name == "" || len([]rune(*r.Name)) > models.MaxNameLength) {
		errs.Add("name", "Name must be between 1 and 50 characters")
	}
	if r.Bio != nil && len([]rune(*r.Bio)) > models.MaxBioLength {
		errs.Add("bio", "Bio cannot exceed 500 characters")
	}
	if r.Website != nil && *r.Website != "" && !govalidator.IsURL(*r.Website) {
		errs.Add("website", "Please provide a valid website URL")
	}
	if r.Resume != nil && *r.Resume != "" && !govalidator.IsURL(*r.Resume) {
		errs.Add("resume", "Resume must be a valid URL")
	}
	return errs.Err("Validation failed")
}

func (r *UpdateProfileRequest) toPatch() models.ProfilePatch {
	return models.ProfilePatch{
		Name:     r.Name,
		Phone:    r.Phone,
		Location: r.Location,
		Bio:      r.Bio,
		Skills:   r.Skills,
		Company:  r.Company,
		Website:  r.Website,
		Resume:   r.Resume,
	}
}
