package app

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/costtrak/api/internal/auth"
	"github.com/costtrak/api/internal/config"
	"github.com/costtrak/api/internal/handlers"
	"github.com/costtrak/api/internal/importer"
)

type testEnv struct {
	pool   *pgxpool.Pool
	router http.Handler
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(pool.Close)

	resetSchema(t, ctx, databaseURL, pool)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        databaseURL,
		SessionCookieName:  "ct_sess",
		SessionTTL:         12 * time.Hour,
		CSRFEnforce:        true,
		Env:                "test",
		APIMaxBodyBytes:    1 << 20,
		ImportMaxFileBytes: 4 << 20,
		ImportMaxRows:      10000,
	}

	router, err := NewRouter(cfg, handlers.NewServer(cfg, pool, logger))
	if err != nil {
		t.Fatalf("create router: %v", err)
	}

	return testEnv{pool: pool, router: router}
}

func resetSchema(t *testing.T, ctx context.Context, databaseURL string, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public;`); err != nil {
		t.Fatalf("drop schema: %v", err)
	}

	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		t.Fatalf("open migration conn: %v", err)
	}
	defer conn.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.RunContext(ctx, "up", conn, "../../migrations"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func seedUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool, email, password, role string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := pool.Exec(ctx,
		`INSERT INTO users (email, full_name, password_hash, role) VALUES ($1, $2, $3, $4)`,
		email, "Test "+role, hash, role); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
}

func login(t *testing.T, router http.Handler, email, password string) (cookie, csrf string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "ct_sess" {
			return c.Name + "=" + c.Value, resp.CSRFToken
		}
	}
	t.Fatal("login did not set session cookie")
	return "", ""
}

func request(t *testing.T, router http.Handler, method, path string, body io.Reader, cookie, csrf, contentType string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	if csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func uploadCSV(t *testing.T, content string, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "import.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func createProject(t *testing.T, router http.Handler, cookie, csrf string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"jobNumber":        "J-1001",
		"name":             "Refinery Expansion",
		"originalContract": "2500000.00",
	})
	status, respBody := request(t, router, http.MethodPost, "/api/projects", bytes.NewReader(body), cookie, csrf, "application/json")
	if status != http.StatusCreated {
		t.Fatalf("create project: status %d: %s", status, respBody)
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	return resp.ID
}

func TestBudgetImportLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, ctx, env.pool, "controller@test.local", "Password123!", "controller")

	cookie, csrf := login(t, env.router, "controller@test.local", "Password123!")
	projectID := createProject(t, env.router, cookie, csrf)

	// Duplicate DIRECT LABOR rows must collapse into one summed line.
	csvContent := "Discipline,Cost Type,Description,Manhours,Value\n" +
		"PIPING,DIRECT LABOR,Direct Labor,1200,\"$54,000.00\"\n" +
		"PIPING,MATERIALS,Materials,,103000.50\n" +
		"PIPING,DIRECT LABOR,Direct Labor,300,6000\n" +
		"PIPING,TOTAL,Total Piping,,163000\n"

	body, contentType := uploadCSV(t, csvContent, nil)
	status, respBody := request(t, env.router, http.MethodPost, "/api/projects/"+projectID+"/budget/import", body, cookie, csrf, contentType)
	if status != http.StatusOK {
		t.Fatalf("import: status %d: %s", status, respBody)
	}

	var result importer.Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Success {
		t.Fatalf("result.success = false: %s", respBody)
	}
	if result.Imported != 2 {
		t.Errorf("imported = %d, want 2 after dedupe", result.Imported)
	}
	if result.Updated != 0 {
		t.Errorf("updated = %d, want 0", result.Updated)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (the total line)", result.Skipped)
	}

	status, respBody = request(t, env.router, http.MethodGet, "/api/projects/"+projectID+"/budget", nil, cookie, "", "")
	if status != http.StatusOK {
		t.Fatalf("list budget: status %d: %s", status, respBody)
	}
	var budget struct {
		Items []struct {
			CostType string   `json:"costType"`
			Manhours *float64 `json:"manhours"`
			Value    float64  `json:"value"`
		} `json:"items"`
	}
	if err := json.Unmarshal(respBody, &budget); err != nil {
		t.Fatalf("decode budget: %v", err)
	}
	if len(budget.Items) != 2 {
		t.Fatalf("budget items = %d, want 2", len(budget.Items))
	}
	for _, item := range budget.Items {
		switch item.CostType {
		case "DIRECT LABOR":
			if item.Value != 60000 {
				t.Errorf("DIRECT LABOR value = %v, want 60000", item.Value)
			}
			if item.Manhours == nil || *item.Manhours != 1500 {
				t.Errorf("DIRECT LABOR manhours = %v, want 1500", item.Manhours)
			}
		case "MATERIALS":
			if item.Value != 103000.5 {
				t.Errorf("MATERIALS value = %v, want 103000.5", item.Value)
			}
			if item.Manhours != nil {
				t.Errorf("MATERIALS manhours = %v, want null", *item.Manhours)
			}
		default:
			t.Errorf("unexpected cost type %q", item.CostType)
		}
	}

	// Re-import with clearExisting replaces rather than extends.
	csvContent = "Discipline,Cost Type,Description,Manhours,Value\n" +
		"STEEL,DIRECT LABOR,Direct Labor,800,31000\n"
	body, contentType = uploadCSV(t, csvContent, map[string]string{"clearExisting": "true"})
	status, respBody = request(t, env.router, http.MethodPost, "/api/projects/"+projectID+"/budget/import", body, cookie, csrf, contentType)
	if status != http.StatusOK {
		t.Fatalf("re-import: status %d: %s", status, respBody)
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("re-import imported = %d, want 1", result.Imported)
	}

	status, respBody = request(t, env.router, http.MethodGet, "/api/projects/"+projectID+"/budget", nil, cookie, "", "")
	if status != http.StatusOK {
		t.Fatalf("list budget after clear: status %d", status)
	}
	if err := json.Unmarshal(respBody, &budget); err != nil {
		t.Fatalf("decode budget: %v", err)
	}
	if len(budget.Items) != 1 {
		t.Errorf("budget items after clear = %d, want 1", len(budget.Items))
	}
}

func TestBudgetImportSurfacesDatabaseError(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, ctx, env.pool, "controller@test.local", "Password123!", "controller")

	cookie, csrf := login(t, env.router, "controller@test.local", "Password123!")
	projectID := createProject(t, env.router, cookie, csrf)

	// Value overflows numeric(15,2), so the upsert fails at the database.
	csvContent := "Discipline,Cost Type,Description,Manhours,Value\n" +
		"PIPING,DIRECT LABOR,Direct Labor,1200,99999999999999999999\n"
	body, contentType := uploadCSV(t, csvContent, nil)
	status, respBody := request(t, env.router, http.MethodPost, "/api/projects/"+projectID+"/budget/import", body, cookie, csrf, contentType)
	if status != http.StatusInternalServerError {
		t.Fatalf("import: status %d, want 500: %s", status, respBody)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Error string `json:"error"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Code != "internal_error" {
		t.Errorf("code = %q, want internal_error", envelope.Error.Code)
	}
	if envelope.Error.Details.Error == "" {
		t.Errorf("details carry no database error message: %s", respBody)
	}
}

func TestImportRequiresImportRole(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, ctx, env.pool, "controller@test.local", "Password123!", "controller")
	seedUser(t, ctx, env.pool, "viewer@test.local", "Password123!", "viewer")

	controllerCookie, controllerCsrf := login(t, env.router, "controller@test.local", "Password123!")
	projectID := createProject(t, env.router, controllerCookie, controllerCsrf)

	viewerCookie, viewerCsrf := login(t, env.router, "viewer@test.local", "Password123!")
	body, contentType := uploadCSV(t, "Discipline,Cost Type,Value\nPIPING,MATERIALS,100\n", nil)
	status, _ := request(t, env.router, http.MethodPost, "/api/projects/"+projectID+"/budget/import", body, viewerCookie, viewerCsrf, contentType)
	if status != http.StatusForbidden {
		t.Fatalf("viewer import: status %d, want 403", status)
	}
}

func TestMutationsRequireCSRF(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, ctx, env.pool, "controller@test.local", "Password123!", "controller")

	cookie, _ := login(t, env.router, "controller@test.local", "Password123!")
	body, _ := json.Marshal(map[string]string{
		"jobNumber": "J-2", "name": "x", "originalContract": "1",
	})
	status, _ := request(t, env.router, http.MethodPost, "/api/projects", bytes.NewReader(body), cookie, "", "application/json")
	if status != http.StatusForbidden {
		t.Fatalf("create without csrf: status %d, want 403", status)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, ctx, env.pool, "controller@test.local", "Password123!", "controller")

	cookie, csrf := login(t, env.router, "controller@test.local", "Password123!")
	status, _ := request(t, env.router, http.MethodGet, "/api/auth/me", nil, cookie, "", "")
	if status != http.StatusOK {
		t.Fatalf("me before logout: status %d", status)
	}

	status, _ = request(t, env.router, http.MethodPost, "/api/auth/logout", nil, cookie, csrf, "")
	if status != http.StatusOK {
		t.Fatalf("logout: status %d", status)
	}

	status, _ = request(t, env.router, http.MethodGet, "/api/auth/me", nil, cookie, "", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("me after logout: status %d, want 401", status)
	}
}

func TestEmployeeAndLaborImport(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, ctx, env.pool, "controller@test.local", "Password123!", "controller")

	cookie, csrf := login(t, env.router, "controller@test.local", "Password123!")
	projectID := createProject(t, env.router, cookie, csrf)

	roster := "Employee Number,Legal First Name,Legal Last Name,Craft,Hourly Rate,Category\n" +
		"1001,Jane,Doe,Pipefitter,52.50,Direct\n" +
		"1002,John,Smith,Welder,48.00,Indirect\n"
	body, contentType := uploadCSV(t, roster, nil)
	status, respBody := request(t, env.router, http.MethodPost, "/api/employees/import", body, cookie, csrf, contentType)
	if status != http.StatusOK {
		t.Fatalf("employee import: status %d: %s", status, respBody)
	}
	var result importer.Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("employees imported = %d, want 2", result.Imported)
	}

	// create-only re-import leaves existing rows untouched.
	body, contentType = uploadCSV(t, roster, map[string]string{"mode": "create-only"})
	status, respBody = request(t, env.router, http.MethodPost, "/api/employees/import", body, cookie, csrf, contentType)
	if status != http.StatusOK {
		t.Fatalf("create-only import: status %d: %s", status, respBody)
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Imported != 0 || result.Skipped != 2 {
		t.Errorf("create-only: imported=%d skipped=%d, want 0/2", result.Imported, result.Skipped)
	}

	labor := "Employee ID,Week Ending,ST Hours,OT Hours\n" +
		"1001,2026-08-21,40,8\n" +
		"9999,2026-08-21,40,0\n"
	body, contentType = uploadCSV(t, labor, nil)
	status, respBody = request(t, env.router, http.MethodPost, "/api/projects/"+projectID+"/labor/import", body, cookie, csrf, contentType)
	if status != http.StatusOK {
		t.Fatalf("labor import: status %d: %s", status, respBody)
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("labor imported = %d, want 1", result.Imported)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("labor errors = %d, want 1 unknown employee", len(result.Errors))
	}
}

func TestChangeOrderApprovalAdjustsRevisedContract(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	seedUser(t, ctx, env.pool, "controller@test.local", "Password123!", "controller")

	cookie, csrf := login(t, env.router, "controller@test.local", "Password123!")
	projectID := createProject(t, env.router, cookie, csrf)

	coBody, _ := json.Marshal(map[string]string{"coNumber": "CO-001", "amount": "125000.25"})
	status, respBody := request(t, env.router, http.MethodPost, "/api/projects/"+projectID+"/change-orders", bytes.NewReader(coBody), cookie, csrf, "application/json")
	if status != http.StatusCreated {
		t.Fatalf("create change order: status %d: %s", status, respBody)
	}
	var co struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &co); err != nil {
		t.Fatalf("decode change order: %v", err)
	}

	// Pending orders do not move the revised contract.
	status, respBody = request(t, env.router, http.MethodGet, "/api/projects/"+projectID, nil, cookie, "", "")
	if status != http.StatusOK {
		t.Fatalf("get project: status %d", status)
	}
	var project struct {
		RevisedContract string `json:"revisedContract"`
	}
	if err := json.Unmarshal(respBody, &project); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if project.RevisedContract != "2500000" {
		t.Errorf("revised contract before approval = %s, want 2500000", project.RevisedContract)
	}

	status, _ = request(t, env.router, http.MethodPost, "/api/change-orders/"+co.ID+"/approve", nil, cookie, csrf, "")
	if status != http.StatusOK {
		t.Fatalf("approve: status %d", status)
	}

	status, respBody = request(t, env.router, http.MethodGet, "/api/projects/"+projectID, nil, cookie, "", "")
	if status != http.StatusOK {
		t.Fatalf("get project: status %d", status)
	}
	if err := json.Unmarshal(respBody, &project); err != nil {
		t.Fatalf("decode project: %v", err)
	}
	if project.RevisedContract != "2625000.25" {
		t.Errorf("revised contract after approval = %s, want 2625000.25", project.RevisedContract)
	}

	// Approving twice conflicts.
	status, _ = request(t, env.router, http.MethodPost, "/api/change-orders/"+co.ID+"/approve", nil, cookie, csrf, "")
	if status != http.StatusConflict {
		t.Fatalf("double approve: status %d, want 409", status)
	}
}
