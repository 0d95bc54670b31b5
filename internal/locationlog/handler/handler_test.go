package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"stocktrail/internal/locationlog/handler/mocks"
	"stocktrail/internal/locationlog/models"
	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
	"stocktrail/pkg/testutil"
)

const adminToken = "secret"

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  http.Handler
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	r := chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), adminToken).Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) TestProductHistory() {
	productID := id.NewProductID()

	s.Run("entries are returned newest first as given", func() {
		s.service.EXPECT().ProductHistory(gomock.Any(), productID).Return([]models.EnrichedEntry{
			{Entry: models.Entry{ProductID: productID, Reason: models.ReasonTransferComplete}, ChangedByName: "S2"},
			{Entry: models.Entry{ProductID: productID, Reason: models.ReasonTransferInitiated}, ChangedByName: "S1"},
		}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/products/"+productID.String()+"/location-history"))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[struct {
			Entries []models.EnrichedEntry `json:"entries"`
		}](s.T(), rr)
		s.Require().Len(resp.Entries, 2)
		s.Equal(models.ReasonTransferComplete, resp.Entries[0].Reason)
		s.Equal("S1", resp.Entries[1].ChangedByName)
	})

	s.Run("malformed product id", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/products/not-a-uuid/location-history"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})
}

func (s *HandlerSuite) TestAllHistory() {
	s.Run("store failure hides the cause", func() {
		s.service.EXPECT().AllHistory(gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "failed to load location history"))

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/location-history"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
	})

	s.Run("store failure without a logger", func() {
		r := chi.NewRouter()
		New(s.service, nil, adminToken).Register(r)
		s.service.EXPECT().AllHistory(gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "failed to load location history"))

		rr := testutil.DoRequest(r, testutil.NewRequest(s.T(), http.MethodGet, "/location-history"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, string(dErrors.CodeInternal))
	})

	s.Run("empty log", func() {
		s.service.EXPECT().AllHistory(gomock.Any()).Return([]models.EnrichedEntry{}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/location-history"))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONHasKey(s.T(), rr, "entries")
	})
}

func (s *HandlerSuite) TestClearProductHistory() {
	productID := id.NewProductID()
	path := "/admin/products/" + productID.String() + "/location-history"

	s.Run("requires the admin token", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodDelete, path))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})

	s.Run("reports deleted rows", func() {
		s.service.EXPECT().ClearProductHistory(gomock.Any(), productID).Return(int64(3), nil)

		rr := testutil.DoRequest(s.router, testutil.WithAdminToken(testutil.NewRequest(s.T(), http.MethodDelete, path), adminToken))
		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "entries_deleted", float64(3))
	})
}

func (s *HandlerSuite) TestClearAllTransferHistory() {
	s.Run("refused while transfers are in transit", func() {
		s.service.EXPECT().ClearAllTransferHistory(gomock.Any()).
			Return(models.ClearResult{}, dErrors.New(dErrors.CodeConflict, "in-transit transfers must be received or cancelled first"))

		rr := testutil.DoRequest(s.router, testutil.WithAdminToken(testutil.NewRequest(s.T(), http.MethodDelete, "/admin/transfers"), adminToken))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	s.Run("reports both counts", func() {
		s.service.EXPECT().ClearAllTransferHistory(gomock.Any()).
			Return(models.ClearResult{EntriesDeleted: 4, SlipsDeleted: 2}, nil)

		rr := testutil.DoRequest(s.router, testutil.WithAdminToken(testutil.NewRequest(s.T(), http.MethodDelete, "/admin/transfers"), adminToken))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[models.ClearResult](s.T(), rr)
		s.Equal(int64(4), resp.EntriesDeleted)
		s.Equal(int64(2), resp.SlipsDeleted)
	})
}
