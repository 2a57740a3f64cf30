package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/timecardhq/timecard-backend-go/internal/domain/user"
	"github.com/timecardhq/timecard-backend-go/internal/mocks"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/clock"
	"github.com/timecardhq/timecard-backend-go/internal/pkg/jwt"
	attendanceService "github.com/timecardhq/timecard-backend-go/internal/service/attendance"
	serviceAuth "github.com/timecardhq/timecard-backend-go/internal/service/auth"
	correctionService "github.com/timecardhq/timecard-backend-go/internal/service/correction"
)

type routerFixture struct {
	router     http.Handler
	jwtService jwt.Service
	users      *mocks.UserRepository
	member     user.User
	admin      user.User
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	userRepo := mocks.NewUserRepository()
	attendanceRepo := mocks.NewAttendanceRepository()
	breakRepo := mocks.NewBreakRepository()
	correctionRepo := mocks.NewCorrectionRepository(attendanceRepo)
	txm := &mocks.TxManager{}
	clk := &clock.Fixed{Time: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}

	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	member, err := userRepo.Create(context.Background(), user.User{
		Name: "山田太郎", Email: "member@example.com", PasswordHash: string(hash),
	})
	require.NoError(t, err)
	admin, err := userRepo.Create(context.Background(), user.User{
		Name: "管理者", Email: "admin@example.com", PasswordHash: string(hash), IsAdmin: true,
	})
	require.NoError(t, err)

	authSvc := serviceAuth.NewAuthService(userRepo, jwtService)
	gate := serviceAuth.NewAccessGate(userRepo)
	attendanceSvc := attendanceService.NewAttendanceService(txm, attendanceRepo, breakRepo, clk)
	correctionSvc := correctionService.NewCorrectionService(txm, correctionRepo, attendanceRepo, breakRepo, clk)

	router := NewRouter(
		jwtService,
		NewAuthHandler(authSvc, jwtService),
		NewAttendanceHandler(attendanceSvc, gate),
		NewCorrectionHandler(correctionSvc, gate),
	)

	return &routerFixture{
		router:     router,
		jwtService: jwtService,
		users:      userRepo,
		member:     member,
		admin:      admin,
	}
}

func (f *routerFixture) tokenFor(t *testing.T, usr user.User) string {
	t.Helper()
	token, _, err := f.jwtService.GenerateAccessToken(usr.ID, usr.Email, usr.IsAdmin)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestLoginEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "member@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, f.member.ID, data["user_id"])

	// The refresh token travels as an HttpOnly cookie, not in the body.
	assert.NotContains(t, data, "refresh_token")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "refresh_token", cookies[0].Name)

	rec = f.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "member@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticationIsRequired(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/attendance/status", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClockInEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	token := f.tokenFor(t, f.member)

	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	envelope := decodeEnvelope(t, rec)
	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, "working", data["status"])
	assert.Equal(t, "出勤中", data["status_label"])

	// Double clock-in maps to a conflict.
	rec = f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/attendance/daily?date=2026-04-01", f.tokenFor(t, f.member), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/attendance/daily?date=2026-04-01", f.tokenFor(t, f.admin), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/corrections/pending", f.tokenFor(t, f.member), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCorrectionSubmitValidation(t *testing.T) {
	f := newRouterFixture(t)
	token := f.tokenFor(t, f.member)

	rec := f.do(t, http.MethodPost, "/api/v1/corrections/", token, map[string]interface{}{
		"attendance_id": "",
		"remarks":       "",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	envelope := decodeEnvelope(t, rec)
	errDetail := envelope["error"].(map[string]interface{})
	assert.Equal(t, "VALIDATION_ERROR", errDetail["code"])
	details := errDetail["details"].(map[string]interface{})
	assert.Contains(t, details, "attendance_id")
	assert.Contains(t, details, "remarks")
}

func TestCorrectionWorkflowOverHTTP(t *testing.T) {
	f := newRouterFixture(t)
	memberToken := f.tokenFor(t, f.member)
	adminToken := f.tokenFor(t, f.admin)

	// Work a day first so there is a record to correct.
	rec := f.do(t, http.MethodPost, "/api/v1/attendance/clock-in", memberToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	attendanceID := decodeEnvelope(t, rec)["data"].(map[string]interface{})["id"].(string)
	rec = f.do(t, http.MethodPost, "/api/v1/attendance/clock-out", memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/corrections/", memberToken, map[string]interface{}{
		"attendance_id": attendanceID,
		"start_time":    "08:30",
		"remarks":       "打刻修正のお願い",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	requestID := decodeEnvelope(t, rec)["data"].(map[string]interface{})["id"].(string)

	// Members cannot approve.
	rec = f.do(t, http.MethodPost, "/api/v1/corrections/"+requestID+"/approve", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/corrections/"+requestID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Approval is terminal.
	rec = f.do(t, http.MethodPost, "/api/v1/corrections/"+requestID+"/approve", adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The corrected start time is visible on the record.
	rec = f.do(t, http.MethodGet, "/api/v1/attendance/"+attendanceID, memberToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "08:30", data["start_time"])
}
