package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrefacil/briefing-backend/internal/app/model"
	"github.com/abrefacil/briefing-backend/internal/app/repository"
	"github.com/abrefacil/briefing-backend/internal/app/service"
	"github.com/abrefacil/briefing-backend/internal/db"
	"github.com/abrefacil/briefing-backend/internal/middleware"
)

type briefingControllerFixture struct {
	router          *gin.Engine
	authService     service.AuthService
	briefingService service.BriefingService
	userRepo        repository.UserRepository
}

func setupBriefingControllerTest(t *testing.T) *briefingControllerFixture {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	briefingRepo := repository.NewBriefingRepository(testDB)
	authService := service.NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	briefingService := service.NewBriefingService(briefingRepo)
	exportService := service.NewExportService(briefingRepo)

	ctrl := NewBriefingController(briefingService, exportService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	// Mirrors the production route wiring
	router := gin.New()
	briefings := router.Group("/briefings")
	{
		briefings.POST("", authMiddleware.OptionalAuthenticate(), ctrl.Create)
		briefings.GET("/protocolo/:protocolo", ctrl.GetByProtocolo)
		briefings.GET("", authMiddleware.Authenticate(), ctrl.List)
		briefings.GET("/statistics", authMiddleware.Authenticate(), authMiddleware.RequireRole(string(model.RoleAdmin)), ctrl.GetStatistics)
		briefings.GET("/export", authMiddleware.Authenticate(), authMiddleware.RequireRole(string(model.RoleAdmin)), ctrl.Export)
		briefings.GET("/:id", authMiddleware.Authenticate(), ctrl.GetByID)
		briefings.PATCH("/:id", authMiddleware.Authenticate(), ctrl.Update)
		briefings.DELETE("/:id", authMiddleware.Authenticate(), authMiddleware.RequireRole(string(model.RoleAdmin)), ctrl.Delete)
	}

	return &briefingControllerFixture{
		router:          router,
		authService:     authService,
		briefingService: briefingService,
		userRepo:        userRepo,
	}
}

// registerUser creates an account and returns its id and access token
func (f *briefingControllerFixture) registerUser(t *testing.T, email string, role model.UserRole) (string, string) {
	t.Helper()

	user, _, err := f.authService.Register(email, "senha123", "Usuário de Teste")
	require.NoError(t, err)

	if role != model.RoleUser {
		user.Role = role
		require.NoError(t, f.userRepo.Update(user))
		// Re-issue tokens so the role claim matches
		_, tokens, err := f.authService.Login(email, "senha123")
		require.NoError(t, err)
		return user.ID, tokens.AccessToken
	}

	_, tokens, err := f.authService.Login(email, "senha123")
	require.NoError(t, err)
	return user.ID, tokens.AccessToken
}

func (f *briefingControllerFixture) request(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func validBriefingPayload() service.CreateBriefingInput {
	return service.CreateBriefingInput{
		NomeCliente:  "João Pereira",
		CpfCnpj:      "123.456.789-09",
		Email:        "joao@example.com",
		Telefone:     "(11) 98765-4321",
		Finalidade:   model.FinalidadeAbertura,
		TipoEntidade: model.TipoLimitada,
		EntidadeNome: "Pereira Comércio Ltda",
		Socios: []service.SocioInput{
			{Nome: "João Pereira", CpfCnpj: "123.456.789-09", Participacao: 100, Administrador: true},
		},
	}
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestBriefingController_Create_Anonymous(t *testing.T) {
	f := setupBriefingControllerTest(t)

	w := f.request(t, "POST", "/briefings", "", validBriefingPayload())
	assert.Equal(t, http.StatusCreated, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "Briefing criado com sucesso", response["message"])

	briefing := response["briefing"].(map[string]interface{})
	assert.Regexp(t, regexp.MustCompile(`^BRF-\d{8}-\d{4}$`), briefing["protocolo"])
	assert.Equal(t, "rascunho", briefing["status"])
	assert.Nil(t, briefing["userId"])
}

func TestBriefingController_Create_Authenticated(t *testing.T) {
	f := setupBriefingControllerTest(t)
	userID, token := f.registerUser(t, "dono@example.com", model.RoleUser)

	w := f.request(t, "POST", "/briefings", token, validBriefingPayload())
	assert.Equal(t, http.StatusCreated, w.Code)

	briefing := decodeBody(t, w)["briefing"].(map[string]interface{})
	assert.Equal(t, userID, briefing["userId"])
}

func TestBriefingController_Create_ValidationErrors(t *testing.T) {
	f := setupBriefingControllerTest(t)

	payload := validBriefingPayload()
	payload.Socios[0].Participacao = 150

	w := f.request(t, "POST", "/briefings", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", response["error"])

	fields := response["fields"].(map[string]interface{})
	assert.Contains(t, fields, "socios[0].participacao")
}

func TestBriefingController_Create_MissingRequiredFields(t *testing.T) {
	f := setupBriefingControllerTest(t)

	w := f.request(t, "POST", "/briefings", "", map[string]interface{}{
		"nomeCliente": "João Pereira",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBriefingController_GetByProtocolo(t *testing.T) {
	f := setupBriefingControllerTest(t)

	created, err := f.briefingService.Create(validBriefingPayload(), nil)
	require.NoError(t, err)

	w := f.request(t, "GET", "/briefings/protocolo/"+created.Protocolo, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	briefing := decodeBody(t, w)["briefing"].(map[string]interface{})
	assert.Equal(t, created.Protocolo, briefing["protocolo"])
	assert.Equal(t, "João Pereira", briefing["nomeCliente"])
}

func TestBriefingController_GetByProtocolo_NotFound(t *testing.T) {
	f := setupBriefingControllerTest(t)

	w := f.request(t, "GET", "/briefings/protocolo/BRF-20200101-9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "BRIEFING_NOT_FOUND", response["error"])
}

func TestBriefingController_List_RequiresAuth(t *testing.T) {
	f := setupBriefingControllerTest(t)

	w := f.request(t, "GET", "/briefings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBriefingController_List_ScopedToOwner(t *testing.T) {
	f := setupBriefingControllerTest(t)
	ownerID, ownerToken := f.registerUser(t, "dono@example.com", model.RoleUser)
	otherID, _ := f.registerUser(t, "outro@example.com", model.RoleUser)
	_, adminToken := f.registerUser(t, "admin@example.com", model.RoleAdmin)

	_, err := f.briefingService.Create(validBriefingPayload(), &ownerID)
	require.NoError(t, err)
	_, err = f.briefingService.Create(validBriefingPayload(), &otherID)
	require.NoError(t, err)
	_, err = f.briefingService.Create(validBriefingPayload(), nil)
	require.NoError(t, err)

	// Regular users only see their own records
	w := f.request(t, "GET", "/briefings", ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Len(t, response["briefings"], 1)

	// Admins see everything, anonymous submissions included
	w = f.request(t, "GET", "/briefings", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	response = decodeBody(t, w)
	assert.Len(t, response["briefings"], 3)
	pagination := response["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total"])
}

func TestBriefingController_List_InvalidFilter(t *testing.T) {
	f := setupBriefingControllerTest(t)
	_, token := f.registerUser(t, "dono@example.com", model.RoleUser)

	w := f.request(t, "GET", "/briefings?status=inexistente", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := decodeBody(t, w)
	fields := response["fields"].(map[string]interface{})
	assert.Contains(t, fields, "status")
}

func TestBriefingController_GetByID_OwnerOnly(t *testing.T) {
	f := setupBriefingControllerTest(t)
	ownerID, ownerToken := f.registerUser(t, "dono@example.com", model.RoleUser)
	_, intrusoToken := f.registerUser(t, "intruso@example.com", model.RoleUser)
	_, adminToken := f.registerUser(t, "admin@example.com", model.RoleAdmin)

	created, err := f.briefingService.Create(validBriefingPayload(), &ownerID)
	require.NoError(t, err)

	w := f.request(t, "GET", "/briefings/"+created.ID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request(t, "GET", "/briefings/"+created.ID, intrusoToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(t, "GET", "/briefings/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBriefingController_Update_StatusTransition(t *testing.T) {
	f := setupBriefingControllerTest(t)
	ownerID, ownerToken := f.registerUser(t, "dono@example.com", model.RoleUser)

	created, err := f.briefingService.Create(validBriefingPayload(), &ownerID)
	require.NoError(t, err)

	w := f.request(t, "PATCH", "/briefings/"+created.ID, ownerToken, map[string]interface{}{
		"status": "completo",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	briefing := decodeBody(t, w)["briefing"].(map[string]interface{})
	assert.Equal(t, "completo", briefing["status"])
}

func TestBriefingController_Update_InvalidTransition(t *testing.T) {
	f := setupBriefingControllerTest(t)
	ownerID, ownerToken := f.registerUser(t, "dono@example.com", model.RoleUser)

	created, err := f.briefingService.Create(validBriefingPayload(), &ownerID)
	require.NoError(t, err)

	// rascunho cannot jump straight to aprovado, and approving is
	// admin-only anyway
	w := f.request(t, "PATCH", "/briefings/"+created.ID, ownerToken, map[string]interface{}{
		"status": "aprovado",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, "BRIEFING_INVALID_TRANSITION", response["error"])
}

func TestBriefingController_Update_AdminOverridesStatus(t *testing.T) {
	f := setupBriefingControllerTest(t)
	ownerID, _ := f.registerUser(t, "dono@example.com", model.RoleUser)
	_, adminToken := f.registerUser(t, "admin@example.com", model.RoleAdmin)

	created, err := f.briefingService.Create(validBriefingPayload(), &ownerID)
	require.NoError(t, err)

	w := f.request(t, "PATCH", "/briefings/"+created.ID, adminToken, map[string]interface{}{
		"status": "aprovado",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	briefing := decodeBody(t, w)["briefing"].(map[string]interface{})
	assert.Equal(t, "aprovado", briefing["status"])
}

func TestBriefingController_Update_PartialKeepsProtocolo(t *testing.T) {
	f := setupBriefingControllerTest(t)
	ownerID, ownerToken := f.registerUser(t, "dono@example.com", model.RoleUser)

	created, err := f.briefingService.Create(validBriefingPayload(), &ownerID)
	require.NoError(t, err)

	w := f.request(t, "PATCH", "/briefings/"+created.ID, ownerToken, map[string]interface{}{
		"telefone": "(11) 91111-2222",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	briefing := decodeBody(t, w)["briefing"].(map[string]interface{})
	assert.Equal(t, created.Protocolo, briefing["protocolo"])
	assert.Equal(t, "(11) 91111-2222", briefing["telefone"])
	assert.Equal(t, "joao@example.com", briefing["email"])
}

func TestBriefingController_Delete_AdminOnly(t *testing.T) {
	f := setupBriefingControllerTest(t)
	ownerID, ownerToken := f.registerUser(t, "dono@example.com", model.RoleUser)
	_, adminToken := f.registerUser(t, "admin@example.com", model.RoleAdmin)

	created, err := f.briefingService.Create(validBriefingPayload(), &ownerID)
	require.NoError(t, err)

	w := f.request(t, "DELETE", "/briefings/"+created.ID, ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(t, "DELETE", "/briefings/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.request(t, "DELETE", "/briefings/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBriefingController_Statistics_AdminOnly(t *testing.T) {
	f := setupBriefingControllerTest(t)
	_, userToken := f.registerUser(t, "dono@example.com", model.RoleUser)
	_, adminToken := f.registerUser(t, "admin@example.com", model.RoleAdmin)

	_, err := f.briefingService.Create(validBriefingPayload(), nil)
	require.NoError(t, err)

	w := f.request(t, "GET", "/briefings/statistics", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.request(t, "GET", "/briefings/statistics", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	stats := decodeBody(t, w)["statistics"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total"])
}

func TestBriefingController_Export(t *testing.T) {
	f := setupBriefingControllerTest(t)
	_, adminToken := f.registerUser(t, "admin@example.com", model.RoleAdmin)

	_, err := f.briefingService.Create(validBriefingPayload(), nil)
	require.NoError(t, err)

	w := f.request(t, "GET", "/briefings/export?format=csv", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, w.Body.String(), "Protocolo")

	w = f.request(t, "GET", "/briefings/export?format=pdf", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
