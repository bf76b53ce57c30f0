// Package seed loads demo accounts, postings and applications from YAML and
// replays them through the domain services.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk seed document.
type File struct {
	Users        []User        `yaml:"users"`
	Jobs         []Job         `yaml:"jobs"`
	Applications []Application `yaml:"applications"`
}

type User struct {
	Name     string   `yaml:"name"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Role     string   `yaml:"role"`
	Company  string   `yaml:"company"`
	Website  string   `yaml:"website"`
	Phone    string   `yaml:"phone"`
	Location string   `yaml:"location"`
	Bio      string   `yaml:"bio"`
	Skills   []string `yaml:"skills"`
}

type Salary struct {
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
	Currency string   `yaml:"currency"`
	Period   string   `yaml:"period"`
}

type Experience struct {
	Min int  `yaml:"min"`
	Max *int `yaml:"max"`
}

type Requirements struct {
	Experience Experience `yaml:"experience"`
	Education  string     `yaml:"education"`
	Skills     []string   `yaml:"skills"`
}

// Job is a posting. Employer names the owning account by email; when empty
// postings are dealt round-robin across the seeded employers.
type Job struct {
	Employer     string       `yaml:"employer"`
	Title        string       `yaml:"title"`
	Description  string       `yaml:"description"`
	Company      string       `yaml:"company"`
	Location     string       `yaml:"location"`
	JobType      string       `yaml:"jobType"`
	WorkMode     string       `yaml:"workMode"`
	Salary       *Salary      `yaml:"salary"`
	Requirements Requirements `yaml:"requirements"`
	Benefits     []string     `yaml:"benefits"`
	Tags         []string     `yaml:"tags"`
	Featured     bool         `yaml:"isFeatured"`
}

type ExpectedSalary struct {
	Amount   float64 `yaml:"amount"`
	Currency string  `yaml:"currency"`
	Period   string  `yaml:"period"`
}

// Application references its posting by position in Jobs.
type Application struct {
	Applicant      string          `yaml:"applicant"`
	Job            int             `yaml:"job"`
	CoverLetter    string          `yaml:"coverLetter"`
	ExpectedSalary *ExpectedSalary `yaml:"expectedSalary"`
	Status         string          `yaml:"status"`
}

// Load reads and parses the seed file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a seed document and checks cross references.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	emails := make(map[string]string, len(f.Users))
	for _, u := range f.Users {
		if u.Email == "" {
			return fmt.Errorf("seed user %q has no email", u.Name)
		}
		emails[u.Email] = u.Role
	}
	for i, j := range f.Jobs {
		if j.Employer == "" {
			continue
		}
		if role, ok := emails[j.Employer]; !ok || role != "employer" {
			return fmt.Errorf("seed job %d: %q is not a seeded employer", i, j.Employer)
		}
	}
	for i, a := range f.Applications {
		if a.Job < 0 || a.Job >= len(f.Jobs) {
			return fmt.Errorf("seed application %d: job index %d out of range", i, a.Job)
		}
		if _, ok := emails[a.Applicant]; !ok {
			return fmt.Errorf("seed application %d: unknown applicant %q", i, a.Applicant)
		}
	}
	return nil
}
