package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/config"
	"github.com/gymfeetrack/gymfeetrack/internal/db"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"github.com/gymfeetrack/gymfeetrack/internal/security"
	"gorm.io/gorm"
)

var testJWT = config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}

// newTestRouter builds a router over a fresh sqlite database.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "gymfeetrack-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, conn, testJWT)
	return r, conn
}

// doRequest performs one JSON request against the router.
func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if errEncode := json.NewEncoder(&buf).Encode(body); errEncode != nil {
			t.Fatalf("encode body: %v", errEncode)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &out); errDecode != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), errDecode)
	}
	return out
}

// registerMember registers an account through the API and returns its token.
func registerMember(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doRequest(t, r, http.MethodPost, "/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPost, "/token", "", gin.H{
		"username": username,
		"password": "password",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("token %s: status %d body %s", username, w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("expected token for %s", username)
	}
	return token
}

// seedAdmin creates an admin account directly against the database and
// returns a signed token for it.
func seedAdmin(t *testing.T, conn *gorm.DB, username string) string {
	t.Helper()
	hash, errHash := security.HashPassword("password")
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	user := models.User{Username: username, Password: hash}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create admin user: %v", errCreate)
	}
	profile := models.UserProfile{
		UserID:        user.ID,
		DateOfJoining: time.Now().UTC().Truncate(24 * time.Hour),
		IsGymAdmin:    true,
	}
	if errCreate := conn.Create(&profile).Error; errCreate != nil {
		t.Fatalf("create admin profile: %v", errCreate)
	}

	token, errSign := security.SignUserToken(testJWT.Secret, testJWT.Expiry, user.ID, user.Username)
	if errSign != nil {
		t.Fatalf("sign admin token: %v", errSign)
	}
	return token
}

// profileIDOf returns the profile ID for a username.
func profileIDOf(t *testing.T, conn *gorm.DB, username string) uint64 {
	t.Helper()
	var user models.User
	if errFind := conn.Where("username = ?", username).First(&user).Error; errFind != nil {
		t.Fatalf("find user %s: %v", username, errFind)
	}
	var profile models.UserProfile
	if errFind := conn.Where("user_id = ?", user.ID).First(&profile).Error; errFind != nil {
		t.Fatalf("find profile for %s: %v", username, errFind)
	}
	return profile.ID
}

// dateString formats a date offset in days from today.
func dateString(daysFromNow int) string {
	return time.Now().UTC().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRegister_CreatesExactlyOneProfile(t *testing.T) {
	r, conn := newTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/register", "", gin.H{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["username"] != "alice" {
		t.Fatalf("expected username=alice, got %v", body["username"])
	}
	if _, leaked := body["password"]; leaked {
		t.Fatalf("password must never be echoed back")
	}

	var profiles []models.UserProfile
	if errFind := conn.Find(&profiles).Error; errFind != nil {
		t.Fatalf("find profiles: %v", errFind)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected exactly one profile, got %d", len(profiles))
	}
	if profiles[0].IsGymAdmin {
		t.Fatalf("expected new member not to be gym admin")
	}

	// Further saves of the account never produce a second profile.
	var user models.User
	if errFind := conn.Where("username = ?", "alice").First(&user).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	user.Email = "alice@new.example.com"
	if errSave := conn.Save(&user).Error; errSave != nil {
		t.Fatalf("save user: %v", errSave)
	}
	var count int64
	if errCount := conn.Model(&models.UserProfile{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count profiles: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected one profile after re-save, got %d", count)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	r, _ := newTestRouter(t)
	registerMember(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/register", "", gin.H{
		"username": "alice",
		"password": "other",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", w.Code)
	}
}

func TestToken_InvalidCredentials(t *testing.T) {
	r, _ := newTestRouter(t)
	registerMember(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/token", "", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/token", "", gin.H{
		"username": "nobody",
		"password": "password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", w.Code)
	}
}

func TestMe_RequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerMember(t, r, "alice")

	w := doRequest(t, r, http.MethodGet, "/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/me", "bogus-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	user, _ := body["user"].(map[string]any)
	if user["username"] != "alice" {
		t.Fatalf("expected nested user alice, got %v", body["user"])
	}
	if body["is_gym_admin"] != false {
		t.Fatalf("expected is_gym_admin=false, got %v", body["is_gym_admin"])
	}
}

func TestProfile_SelfScopeOnly(t *testing.T) {
	r, conn := newTestRouter(t)
	aliceToken := registerMember(t, r, "alice")
	registerMember(t, r, "bob")

	aliceProfile := profileIDOf(t, conn, "alice")
	bobProfile := profileIDOf(t, conn, "bob")

	w := doRequest(t, r, http.MethodGet, "/profiles/"+itoa(aliceProfile), aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for own profile, got %d", w.Code)
	}

	// Another member's profile reads as not found, not forbidden.
	w = doRequest(t, r, http.MethodGet, "/profiles/"+itoa(bobProfile), aliceToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another member's profile, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPut, "/profiles/"+itoa(aliceProfile), aliceToken, gin.H{
		"phone_number": "5551234567",
		"address":      "1 Gym Street",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 updating own profile, got %d body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["phone_number"] != "5551234567" {
		t.Fatalf("expected updated phone, got %v", body["phone_number"])
	}

	w = doRequest(t, r, http.MethodPut, "/profiles/"+itoa(aliceProfile), aliceToken, gin.H{
		"phone_number": "555123456789999",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized phone, got %d", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	r, _ := newTestRouter(t)
	token := registerMember(t, r, "alice")

	w := doRequest(t, r, http.MethodPut, "/me/password", token, gin.H{
		"old_password": "wrong",
		"new_password": "next",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong old password, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPut, "/me/password", token, gin.H{
		"old_password": "password",
		"new_password": "next",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}

	w = doRequest(t, r, http.MethodPost, "/token", "", gin.H{
		"username": "alice",
		"password": "next",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected token with new password, got %d", w.Code)
	}
}

func TestAdminProfiles(t *testing.T) {
	r, conn := newTestRouter(t)
	aliceToken := registerMember(t, r, "alice")
	registerMember(t, r, "bob")
	adminToken := seedAdmin(t, conn, "owner")

	w := doRequest(t, r, http.MethodGet, "/admin/profiles", aliceToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodGet, "/admin/profiles", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}
	profiles, _ := decodeBody(t, w)["profiles"].([]any)
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}

	w = doRequest(t, r, http.MethodGet, "/admin/profiles?search=ALI", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	profiles, _ = decodeBody(t, w)["profiles"].([]any)
	if len(profiles) != 1 {
		t.Fatalf("expected search to match alice only, got %d rows", len(profiles))
	}

	bobProfile := profileIDOf(t, conn, "bob")
	w = doRequest(t, r, http.MethodPut, "/admin/profiles/"+itoa(bobProfile), adminToken, gin.H{
		"is_gym_admin": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 promoting bob, got %d body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["is_gym_admin"] != true {
		t.Fatalf("expected bob to be promoted")
	}
}

func TestPlans_PublicReadAdminWrite(t *testing.T) {
	r, conn := newTestRouter(t)
	memberToken := registerMember(t, r, "alice")
	adminToken := seedAdmin(t, conn, "owner")

	// Catalog reads are open.
	w := doRequest(t, r, http.MethodGet, "/plans", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for public plan list, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/plans", "", gin.H{"name": "Monthly"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous create, got %d", w.Code)
	}
	w = doRequest(t, r, http.MethodPost, "/plans", memberToken, gin.H{"name": "Monthly"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for member create, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPost, "/plans", adminToken, gin.H{
		"name":          "Monthly",
		"price":         50.00,
		"duration_days": 30,
		"description":   "One month of access",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", w.Code, w.Body.String())
	}
	planID := uint64(decodeBody(t, w)["id"].(float64))

	w = doRequest(t, r, http.MethodPost, "/plans", adminToken, gin.H{
		"name":          "Monthly",
		"price":         60.00,
		"duration_days": 30,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate plan name, got %d", w.Code)
	}

	w = doRequest(t, r, http.MethodPut, "/plans/"+itoa(planID), adminToken, gin.H{
		"price": 55.00,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["price"] != 55.00 {
		t.Fatalf("expected updated price")
	}

	w = doRequest(t, r, http.MethodGet, "/plans/"+itoa(planID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for public plan read, got %d", w.Code)
	}
}

func TestPlanDelete_NullsSubscriptionReference(t *testing.T) {
	r, conn := newTestRouter(t)
	aliceToken := registerMember(t, r, "alice")
	adminToken := seedAdmin(t, conn, "owner")
	aliceProfile := profileIDOf(t, conn, "alice")

	planID := createPlan(t, r, adminToken, "Monthly", 50.00, 30)
	subID := createSubscription(t, r, adminToken, aliceProfile, planID, 0, 30)

	w := doRequest(t, r, http.MethodDelete, "/plans/"+itoa(planID), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting plan, got %d body %s", w.Code, w.Body.String())
	}

	// The subscription survives with a null plan reference.
	w = doRequest(t, r, http.MethodGet, "/subscriptions/"+itoa(subID), aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", w.Code, w.Body.String())
	}
	if plan := decodeBody(t, w)["plan"]; plan != nil {
		t.Fatalf("expected null plan after deletion, got %v", plan)
	}

	var sub models.MemberSubscription
	if errFind := conn.First(&sub, subID).Error; errFind != nil {
		t.Fatalf("expected subscription row to survive: %v", errFind)
	}
	if sub.PlanID != nil {
		t.Fatalf("expected plan_id to be null, got %v", *sub.PlanID)
	}
}
