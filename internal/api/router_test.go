package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"paynote/internal/api"
	"paynote/internal/api/handlers"
	"paynote/internal/mocks"
	"paynote/internal/models"
	"paynote/internal/service"
	"paynote/pkg/auth"
	"paynote/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type testServer struct {
	app       *fiber.App
	jwt       *auth.JWTManager
	completer *mocks.MockChatCompleter
	sequence  *mocks.MockSequenceSource
	store     *mocks.MockInvoiceStore
	users     *mocks.MockUserStore
	mailer    *mocks.MockMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ctrl := gomock.NewController(t)
	s := &testServer{
		jwt:       auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour),
		completer: mocks.NewMockChatCompleter(ctrl),
		sequence:  mocks.NewMockSequenceSource(ctrl),
		store:     mocks.NewMockInvoiceStore(ctrl),
		users:     mocks.NewMockUserStore(ctrl),
		mailer:    mocks.NewMockMailer(ctrl),
	}

	logger := zap.NewNop()
	counter := mocks.NewMockOwnerCounter(ctrl)
	events := mocks.NewMockEventPublisher(ctrl)
	storage := mocks.NewMockObjectStorage(ctrl)

	gateway := service.NewPersistenceGateway(s.store, counter, events, logger)
	profiles := service.NewProfileService(s.users, logger)
	invoices := service.NewInvoiceService(
		service.NewExtractionClient(s.completer, time.Second, logger),
		service.NewNumberGenerator(s.sequence, logger),
		gateway,
		s.store,
		profiles,
		service.NewBriefReader(logger),
		service.TotalsPolicy{},
		time.UTC,
		logger,
	)
	delivery := service.NewDeliveryService(s.store, gateway, profiles, service.NewPDFRenderer(), storage, s.mailer, false, logger)

	s.app = api.SetupRouter(api.Handlers{
		Auth:    handlers.NewAuthHandler(service.NewAuthService(s.users, s.jwt, logger), logger),
		Invoice: handlers.NewInvoiceHandler(invoices, delivery, logger),
		Email:   handlers.NewEmailHandler(delivery, logger),
		Profile: handlers.NewProfileHandler(profiles, logger),
	}, s.jwt, config.ServerConfig{}, logger)

	return s
}

func (s *testServer) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestGenerateInvoice(t *testing.T) {
	t.Parallel()

	t.Run("preflight", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		status, _ := s.do(t, http.MethodOptions, "/generate-invoice", "", "")
		require.Equal(t, http.StatusOK, status)
	})

	t.Run("wrong method", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		status, body := s.do(t, http.MethodGet, "/generate-invoice", "", "")
		require.Equal(t, http.StatusMethodNotAllowed, status)
		require.Equal(t, "Method not allowed", body["error"])
	})

	t.Run("missing description", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		status, body := s.do(t, http.MethodPost, "/generate-invoice", `{"description":"  "}`, "")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Description requise", body["error"])
	})

	t.Run("preview", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("```json\n{\"client_name\":\"Jean Dupont\",\"client_email\":\"jean@example.fr\",\"service_description\":\"Conseil\",\"quantity\":12,\"unit_price\":400,\"currency\":\"USD\",\"payment_terms\":30}\n```", nil)

		status, body := s.do(t, http.MethodPost, "/generate-invoice", `{"description":"400$/jour pendant 12 jours pour Jean Dupont, conseil"}`, "")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "Jean Dupont", body["client_name"])
		require.Equal(t, "jean@example.fr", body["client_email"])
		require.Nil(t, body["client_company"])
		require.Equal(t, "USD", body["currency"])
		require.Equal(t, 4800.0, body["subtotal"])
		require.Equal(t, 4800.0, body["total"])
		require.Equal(t, "draft", body["status"])
		require.Equal(t, "Paiement sous 30 jours", body["notes"])

		items := body["items"].([]any)
		require.Len(t, items, 1)
		item := items[0].(map[string]any)
		require.Equal(t, 12.0, item["quantity"])
		require.Equal(t, 400.0, item["unit_price"])
		require.Equal(t, 4800.0, item["total"])

		issue, err := time.Parse("2006-01-02", body["issue_date"].(string))
		require.NoError(t, err)
		require.Equal(t, issue.AddDate(0, 0, 30).Format("2006-01-02"), body["due_date"])
	})

	t.Run("upstream failure", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", models.ErrRateLimited)

		status, body := s.do(t, http.MethodPost, "/generate-invoice", `{"description":"x"}`, "")
		require.Equal(t, http.StatusInternalServerError, status)
		require.Equal(t, models.ErrRateLimited.Error(), body["error"])
	})

	t.Run("incomplete extraction", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.completer.EXPECT().Complete(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(`{"client_name":"Jean"}`, nil)

		status, body := s.do(t, http.MethodPost, "/generate-invoice", `{"description":"x"}`, "")
		require.Equal(t, http.StatusInternalServerError, status)
		require.Contains(t, body["error"], "incomplete data")
	})
}

func TestSendEmail(t *testing.T) {
	t.Parallel()

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		status, body := s.do(t, http.MethodPost, "/send-email", `{"to":"a@b.fr","invoice_number":"FAC-2025-0001"}`, "")
		require.Equal(t, http.StatusBadRequest, status)
		require.Equal(t, "Données manquantes", body["error"])
	})

	t.Run("sent", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).
			Return(&models.DeliveryReceipt{Provider: "resend", MessageID: "re_1", Raw: map[string]any{"id": "re_1"}}, nil)

		status, body := s.do(t, http.MethodPost, "/send-email",
			`{"to":"a@b.fr","invoice_number":"FAC-2025-0001","pdf_url":"https://cdn/x.pdf","client_name":"Jean"}`, "")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, true, body["success"])
		require.Equal(t, "Email envoyé avec succès", body["message"])
		require.Equal(t, map[string]any{"id": "re_1"}, body["data"])
	})

	t.Run("provider failure", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		s.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, models.ErrUpstreamFormat)

		status, body := s.do(t, http.MethodPost, "/send-email",
			`{"to":"a@b.fr","invoice_number":"FAC-2025-0001","pdf_url":"https://cdn/x.pdf","client_name":"Jean"}`, "")
		require.Equal(t, http.StatusInternalServerError, status)
		require.NotEmpty(t, body["error"])
	})
}

func TestProtectedRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	owner := uuid.New()
	token, err := s.jwt.GenerateToken(owner.String(), "me@example.fr", "Me")
	require.NoError(t, err)

	status, _ := s.do(t, http.MethodGet, "/api/v1/invoices", "", "")
	require.Equal(t, http.StatusUnauthorized, status)

	s.store.EXPECT().FindByNumber(gomock.Any(), owner, "FAC-2025-0404").Return(nil, models.ErrNotFound)
	status, _ = s.do(t, http.MethodGet, "/api/v1/invoices/FAC-2025-0404", "", token)
	require.Equal(t, http.StatusNotFound, status)

	s.sequence.EXPECT().NextInvoiceNumber(gomock.Any(), owner).Return("FAC-2025-0012", nil)
	status, body := s.do(t, http.MethodPost, "/api/v1/invoices/number", "", token)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "FAC-2025-0012", body["invoice_number"])

	s.store.EXPECT().ListByOwner(gomock.Any(), owner, 20, 0).Return(nil, nil)
	status, body = s.do(t, http.MethodGet, "/api/v1/invoices", "", token)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, body["invoices"])

	status, body = s.do(t, http.MethodPost, "/api/v1/invoices", `{"invoice_number":"FAC-2025-0001","issue_date":"03/03/2025"}`, token)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotEmpty(t, body["error"])
}

func TestAuthRoutes(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	s.users.EXPECT().GetByEmail(gomock.Any(), "nobody@example.fr").Return(nil, models.ErrNotFound)
	status, _ := s.do(t, http.MethodPost, "/user/auth/login", `{"email":"nobody@example.fr","password":"x"}`, "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := s.do(t, http.MethodPost, "/user/auth/register", `{"email":"a@b.fr","password":"secret-pass","full_name":"  "}`, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Email, mot de passe et nom complet requis", body["error"])

	status, body = s.do(t, http.MethodPost, "/user/auth/login", `{"email":"a@b.fr"}`, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Email et mot de passe requis", body["error"])

	status, body = s.do(t, http.MethodPost, "/user/auth/refresh", `{}`, "")
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "refresh_token requis", body["error"])

	status, body = s.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
}
