package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/logging"
	sc "github.com/mundobien2025/pulbot-impulsame-backend/internal/server/config"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/repositories/repomanager"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/services"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/storage"
)

// stubStore is a minimal ObjectStore for handler tests.
type stubStore struct {
	presignErr error
	putErr     error
}

func (s *stubStore) PresignPut(ctx context.Context, key, contentType string, size int64, ttl time.Duration) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://signed.example/" + key, nil
}

func (s *stubStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	return s.putErr
}

func (s *stubStore) Delete(ctx context.Context, key string) error { return nil }

func (s *stubStore) URL(key string) string { return "s3://test-bucket/" + key }

type testEnv struct {
	router http.Handler
	mock   sqlmock.Sqlmock
	store  *stubStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.Environment = "test"
	cfg.S3Bucket = "impulsame-user-datos"

	logger := logging.NewJSON(io.Discard, "test")
	store := &stubStore{}
	repos := repomanager.NewPostgresRepositoryManager()

	uploads := services.NewUploadService(store, cfg, logger)
	registration := services.NewRegistrationService(db, repos, store, cfg, logger)
	h := NewHandlers(uploads, registration, logger, cfg.Environment, cfg.S3Bucket)

	return &testEnv{router: NewRouter(h), mock: mock, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env Envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func uploadBody(n int) string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf(`{"field_name":"doc%d","file_name":"cedula.pdf","file_size":1024,"content_type":"application/pdf"}`, i)
	}
	return `{"files":[` + strings.Join(files, ",") + `]}`
}

func registerBody() string {
	return `{"email":"maria@example.com","full_name":"Maria Perez","ci":"V-12345678","phone1":"04141234567"}`
}

func expectRegistrationTx(mock sqlmock.Sqlmock, insertErr error) {
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+users\s+WHERE\s+email`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+users\s+WHERE\s+ci`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	if insertErr != nil {
		mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnError(insertErr)
		mock.ExpectRollback()
	} else {
		mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}
}

func TestPreflight_ShortCircuitsWithCORS(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodOptions, "/api/users/register", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Empty(t, rec.Body.Bytes(), "preflight runs before any validation")
}

func TestUploadURLs_Success(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/files/upload-urls", uploadBody(2))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err, "timestamp must be ISO-8601")

	data := body.Data.(map[string]any)
	assert.Equal(t, float64(2), data["total_files"])
	assert.Equal(t, "impulsame-user-datos", data["bucket_name"])
	assert.Len(t, data["upload_urls"], 2)
}

func TestUploadURLs_MissingBody(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/files/upload-urls", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "MISSING_BODY", body.ErrorCode)
}

func TestUploadURLs_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/files/upload-urls", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_JSON", body.ErrorCode)
}

func TestUploadURLs_TooManyFiles(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/files/upload-urls", uploadBody(6))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "TOO_MANY_FILES", body.ErrorCode)
}

func TestUploadURLs_ValidationErrorsItemized(t *testing.T) {
	env := newTestEnv(t)

	body := `{"files":[
		{"field_name":"a","file_name":"ok.pdf","file_size":1024,"content_type":"application/pdf"},
		{"field_name":"b","file_name":"bad.exe","file_size":1024,"content_type":"application/pdf"}
	]}`
	rec, env2 := env.do(t, http.MethodPost, "/api/files/upload-urls", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env2.ErrorCode)

	details := env2.Details.(map[string]any)
	errs := details["validation_errors"].([]any)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, float64(1), first["file_index"])
}

func TestUploadURLs_BackendFailureIsGeneric(t *testing.T) {
	env := newTestEnv(t)
	env.store.presignErr = errors.New("credentials expired at 2026-08-31")

	rec, body := env.do(t, http.MethodPost, "/api/files/upload-urls", uploadBody(1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "BACKEND_ERROR", body.ErrorCode)
	assert.NotContains(t, body.Message, "credentials", "internal detail must not reach the client")
}

func TestUploadURLs_BucketNotConfigured(t *testing.T) {
	env := newTestEnv(t)
	env.store.presignErr = storage.ErrBucketNotConfigured

	rec, body := env.do(t, http.MethodPost, "/api/files/upload-urls", uploadBody(1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "BUCKET_NOT_CONFIGURED", body.ErrorCode)
}

// zeroReader yields an endless stream of zero bytes.
type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestRegister_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t)

	body := io.LimitReader(zeroReader{}, maxRequestBody+1)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	var envlp Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envlp))
	assert.Equal(t, "VALIDATION_ERROR", envlp.ErrorCode)
}

func TestRegister_Created(t *testing.T) {
	env := newTestEnv(t)
	expectRegistrationTx(env.mock, nil)

	rec, body := env.do(t, http.MethodPost, "/api/users/register", registerBody())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.UserID)

	data := body.Data.(map[string]any)
	assert.Equal(t, body.UserID, data["user_id"])
	require.NoError(t, env.mock.ExpectationsWereMet())
}

func TestRegister_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/users/register", `{"email":"x@y.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.ErrorCode)
}

func TestRegister_Conflict(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectBegin()
	env.mock.ExpectQuery(`SELECT\s+COUNT\(\*\)\s+FROM\s+users\s+WHERE\s+email`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	env.mock.ExpectRollback()

	rec, body := env.do(t, http.MethodPost, "/api/users/register", registerBody())

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_USER", body.ErrorCode)
	details := body.Details.(map[string]any)
	assert.Equal(t, "email", details["field"])
}

func TestRegister_BackendFailure(t *testing.T) {
	env := newTestEnv(t)
	expectRegistrationTx(env.mock, errors.New("connection refused"))

	rec, body := env.do(t, http.MethodPost, "/api/users/register", registerBody())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "BACKEND_ERROR", body.ErrorCode)
	assert.NotContains(t, body.Message, "connection refused")
}

func TestGetUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`(?s)SELECT\s+.*FROM\s+users\s+WHERE\s+ci`).
		WillReturnError(sql.ErrNoRows)

	rec, body := env.do(t, http.MethodGet, "/api/users/V-00000000", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body.ErrorCode)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "pong", body.Message)
}

func TestRecoverMiddleware_ConvertsPanicToEnvelope(t *testing.T) {
	h := NewHandlers(nil, nil, logging.NewJSON(io.Discard, "test"), "test", "b")
	panicking := h.recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("secret internal state")
	}))

	rec := httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.ErrorCode)
	assert.NotContains(t, rec.Body.String(), "secret internal state")
}
