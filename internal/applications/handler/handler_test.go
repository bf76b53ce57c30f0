package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"hireme/internal/applications/handler/mocks"
	"hireme/internal/applications/models"
	"hireme/internal/applications/service"
	jobmodels "hireme/internal/jobs/models"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/middleware/auth"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/platform/tokens"
	"hireme/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type ApplicationHandlerSuite struct {
	suite.Suite
	service  *mocks.MockService
	jwt      *tokens.JWTService
	router   http.Handler
	seeker   id.UserID
	employer id.UserID
}

func TestApplicationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ApplicationHandlerSuite))
}

func (s *ApplicationHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.jwt = tokens.NewJWTService("test-key", "hireme", time.Hour)
	s.seeker = id.NewUserID()
	s.employer = id.NewUserID()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.service, auth.NewGuard(s.jwt, logger), logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *ApplicationHandlerSuite) as(req *http.Request, userID id.UserID, role id.Role) *http.Request {
	token, _, err := s.jwt.Issue(userID, role)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *ApplicationHandlerSuite) TestApply() {
	jobID := id.NewJobID()
	letter := strings.Repeat("I build reliable systems. ", 3)

	s.Run("job seeker applies", func() {
		s.service.EXPECT().Apply(gomock.Any(), s.seeker, jobID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ id.UserID, _ id.JobID, sub models.Submission) (*models.Application, error) {
				s.Equal(strings.TrimSpace(letter), sub.CoverLetter)
				s.Require().NotNil(sub.ExpectedSalary)
				s.Equal(id.Currency("EUR"), sub.ExpectedSalary.Currency)
				s.Equal(85000.0, sub.ExpectedSalary.Amount)
				return &models.Application{ID: id.NewApplicationID(), JobID: jobID, Status: models.StatusPending}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
			"jobId":          jobID.String(),
			"coverLetter":    letter,
			"expectedSalary": map[string]any{"amount": 85000, "currency": "eur"},
		})
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		app := testutil.Data(s.T(), rr)["application"].(map[string]any)
		s.Equal("pending", app["status"])
	})

	s.Run("employers cannot apply", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
			"jobId": jobID.String(), "coverLetter": letter,
		})
		rr := testutil.DoRequest(s.router, s.as(req, s.employer, id.RoleEmployer))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	s.Run("anonymous callers are rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{"jobId": jobID.String()})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("malformed job id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
			"jobId": "nope", "coverLetter": letter,
		})
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("duplicate application", func() {
		s.service.EXPECT().Apply(gomock.Any(), s.seeker, jobID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "You have already applied to this job"))
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
			"jobId": jobID.String(), "coverLetter": letter,
		})
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	s.Run("expired job", func() {
		s.service.EXPECT().Apply(gomock.Any(), s.seeker, jobID, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidState, "Application deadline has passed"))
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/applications", map[string]any{
			"jobId": jobID.String(), "coverLetter": letter,
		})
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *ApplicationHandlerSuite) TestMyApplications() {
	s.Run("parses status and pagination", func() {
		s.service.EXPECT().ListByApplicant(gomock.Any(), s.seeker, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ id.UserID, q models.ListQuery) (models.Page, error) {
				s.Equal(models.StatusShortlisted, q.Status)
				s.Equal(pagination.Params{Page: 2, Limit: 1}, q.Page)
				return models.Page{Applications: []*models.Application{{ID: id.NewApplicationID()}}, Total: 3}, nil
			})
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/user?status=shortlisted&page=2&limit=1")
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))

		testutil.AssertStatusOK(s.T(), rr)
		meta := testutil.Data(s.T(), rr)["pagination"].(map[string]any)
		s.Equal(float64(2), meta["currentPage"])
		s.Equal(true, meta["hasPrevPage"])
		s.Equal(true, meta["hasNextPage"])
	})

	s.Run("empty list is an array", func() {
		s.service.EXPECT().ListByApplicant(gomock.Any(), s.seeker, gomock.Any()).Return(models.Page{}, nil)
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/user")
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatusOK(s.T(), rr)
		s.Equal([]any{}, testutil.Data(s.T(), rr)["applications"])
	})

	s.Run("unknown status", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/user?status=archived")
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *ApplicationHandlerSuite) TestWithdraw() {
	appID := id.NewApplicationID()

	s.Run("withdrawn", func() {
		s.service.EXPECT().Withdraw(gomock.Any(), appID, s.seeker).Return(nil)
		req := testutil.NewRequest(s.T(), http.MethodDelete, "/applications/"+appID.String()+"/withdraw")
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("too late", func() {
		s.service.EXPECT().Withdraw(gomock.Any(), appID, s.seeker).
			Return(dErrors.New(dErrors.CodeInvalidState, "Application cannot be withdrawn at this stage"))
		req := testutil.NewRequest(s.T(), http.MethodDelete, "/applications/"+appID.String()+"/withdraw")
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidState))
	})
}

func (s *ApplicationHandlerSuite) TestListForJob() {
	jobID := id.NewJobID()

	s.Run("owner sees job summary", func() {
		s.service.EXPECT().ListForJob(gomock.Any(), jobID, s.employer, gomock.Any()).Return(&service.JobApplications{
			Job:  jobmodels.Summary{ID: jobID, Title: "SRE"},
			Page: models.Page{Applications: []*models.Application{{ID: id.NewApplicationID()}}, Total: 1},
		}, nil)
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/job/"+jobID.String())
		rr := testutil.DoRequest(s.router, s.as(req, s.employer, id.RoleEmployer))

		testutil.AssertStatusOK(s.T(), rr)
		data := testutil.Data(s.T(), rr)
		s.Equal("SRE", data["job"].(map[string]any)["title"])
		s.Len(data["applications"], 1)
	})

	s.Run("another employer", func() {
		s.service.EXPECT().ListForJob(gomock.Any(), jobID, s.employer, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "Access denied"))
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/job/"+jobID.String())
		rr := testutil.DoRequest(s.router, s.as(req, s.employer, id.RoleEmployer))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	s.Run("job seekers are rejected", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/job/"+jobID.String())
		rr := testutil.DoRequest(s.router, s.as(req, s.seeker, id.RoleJobSeeker))
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})
}

func (s *ApplicationHandlerSuite) TestUpdateStatus() {
	appID := id.NewApplicationID()

	s.Run("employer shortlists", func() {
		s.service.EXPECT().UpdateStatus(gomock.Any(), appID, s.employer, models.StatusShortlisted, "Great fit").
			Return(&models.Application{ID: appID, Status: models.StatusShortlisted}, nil)
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/applications/"+appID.String()+"/status",
			map[string]any{"status": "shortlisted", "notes": " Great fit "})
		rr := testutil.DoRequest(s.router, s.as(req, s.employer, id.RoleEmployer))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("unknown status never reaches the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/applications/"+appID.String()+"/status",
			map[string]any{"status": "ghosted"})
		rr := testutil.DoRequest(s.router, s.as(req, s.employer, id.RoleEmployer))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *ApplicationHandlerSuite) TestStatistics() {
	s.service.EXPECT().Statistics(gomock.Any(), s.employer).Return(models.NewStatistics(map[models.Status]int{
		models.StatusPending: 2,
	}), nil)
	req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/employer/stats")
	rr := testutil.DoRequest(s.router, s.as(req, s.employer, id.RoleEmployer))

	testutil.AssertStatusOK(s.T(), rr)
	s.Equal(float64(2), testutil.Data(s.T(), rr)["totalApplications"])
}

func (s *ApplicationHandlerSuite) TestGet() {
	appID := id.NewApplicationID()

	s.Run("either party may read", func() {
		s.service.EXPECT().Get(gomock.Any(), appID, s.employer).Return(&models.Application{ID: appID}, nil)
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/"+appID.String())
		rr := testutil.DoRequest(s.router, s.as(req, s.employer, id.RoleEmployer))
		testutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("strangers are forbidden", func() {
		stranger := id.NewUserID()
		s.service.EXPECT().Get(gomock.Any(), appID, stranger).Return(nil, dErrors.New(dErrors.CodeForbidden, "Access denied"))
		req := testutil.NewRequest(s.T(), http.MethodGet, "/applications/"+appID.String())
		rr := testutil.DoRequest(s.router, s.as(req, stranger, id.RoleJobSeeker))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	s.Run("requires a token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/applications/"+appID.String()))
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})
}
