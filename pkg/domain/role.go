package domain

// Role is fixed when an account is registered and never changes afterwards.
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
)

func (r Role) IsValid() bool {
	return r == RoleJobSeeker || r == RoleEmployer
}

func (r Role) String() string { return string(r) }
