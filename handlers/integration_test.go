package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"gamereview/db"
	"gamereview/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Needs a running postgres, e.g.
//
//	TEST_DATABASE_URL="host=localhost user=postgres dbname=gamereview_test sslmode=disable" go test ./handlers
//
// Exercises the invariants that only the storage layer can guarantee:
// review uniqueness under concurrency, ownership predicates, and the
// cascade on game deletion.
func setupIntegration(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database integration test")
	}
	t.Setenv("DATABASE_URL", dsn)
	t.Setenv("JWT_SECRET", "integration-secret")
	db.InitDB()

	// Clean slate, children first
	for _, model := range []interface{}{&models.Comment{}, &models.Review{}, &models.Game{}, &models.User{}} {
		if err := db.DB.Where("1 = 1").Delete(model).Error; err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	}

	r := gin.New()
	r.POST("/auth/signup", Signup)
	r.POST("/auth/login", Login)
	r.GET("/games", GetGames)
	r.GET("/games/search", SearchGames)
	r.GET("/games/:id", GetGameByID)
	r.GET("/games/:id/reviews", GetGameReviews)
	r.GET("/reviews/:id/comments", GetReviewComments)

	protected := r.Group("/", AuthMiddleware())
	protected.GET("/reviews", GetMyReviews)
	protected.POST("/games/:id/reviews", CreateReview)
	protected.PUT("/reviews/:id", UpdateReview)
	protected.DELETE("/reviews/:id", DeleteReview)
	protected.GET("/comments", GetMyComments)
	protected.POST("/reviews/:id/comments", CreateComment)
	protected.PUT("/comments/:id", UpdateComment)
	protected.DELETE("/comments/:id", DeleteComment)

	catalog := r.Group("/games", AuthMiddleware(), AdminOnly())
	catalog.POST("", CreateGame)
	catalog.PUT("/:id", UpdateGame)
	catalog.DELETE("/:id", DeleteGame)

	admin := r.Group("/admin", AuthMiddleware(), AdminOnly())
	admin.GET("/users", GetUsers)
	admin.PUT("/users/:id", UpdateUserRole)

	return r
}

func request(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
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

func signupUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := request(t, r, http.MethodPost, "/auth/signup", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup %s: got %d (%s)", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("signup %s: no token in response %s", username, w.Body.String())
	}
	return resp.Token
}

func adminToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcryptCost)
	admin := models.User{Username: "root", Email: "root@example.com", Password: string(hash), Role: "admin"}
	if err := db.DB.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	w := request(t, r, http.MethodPost, "/auth/login", "", gin.H{"username": "root", "password": "admin123"})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login: got %d (%s)", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Token
}

func TestReviewPlatformEndToEnd(t *testing.T) {
	r := setupIntegration(t)

	alice := signupUser(t, r, "alice")
	bob := signupUser(t, r, "bob")
	root := adminToken(t, r)

	// Duplicate username is a storage-level conflict
	if w := request(t, r, http.MethodPost, "/auth/signup", "", gin.H{
		"username": "alice", "email": "other@example.com", "password": "secret123",
	}); w.Code != http.StatusConflict {
		t.Errorf("duplicate signup: got %d, want 409", w.Code)
	}

	// Wrong password never reveals whether the user exists
	if w := request(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice", "password": "wrong",
	}); w.Code != http.StatusUnauthorized {
		t.Errorf("bad password login: got %d, want 401", w.Code)
	}

	// Catalog writes are admin-only
	gameBody := gin.H{"name": "Halo 3", "description": "Finish the fight", "genre": "Shooter", "publisher": "Microsoft", "release_date": "2007-09-25"}
	if w := request(t, r, http.MethodPost, "/games", alice, gameBody); w.Code != http.StatusForbidden {
		t.Errorf("user creating game: got %d, want 403", w.Code)
	}
	w := request(t, r, http.MethodPost, "/games", root, gameBody)
	if w.Code != http.StatusOK {
		t.Fatalf("admin creating game: got %d (%s)", w.Code, w.Body.String())
	}
	var game models.Game
	json.Unmarshal(w.Body.Bytes(), &game)

	// Blank search shows nothing, substring search finds the game
	if w := request(t, r, http.MethodGet, "/games/search?q=++", "", nil); w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Errorf("blank search: got %d %q, want 200 []", w.Code, w.Body.String())
	}
	w = request(t, r, http.MethodGet, "/games/search?q=halo", "", nil)
	var found []models.Game
	json.Unmarshal(w.Body.Bytes(), &found)
	if len(found) != 1 || found[0].ID != game.ID {
		t.Errorf("search 'halo': got %v", found)
	}

	// One review per (user, game)
	reviewPath := fmt.Sprintf("/games/%d/reviews", game.ID)
	w = request(t, r, http.MethodPost, reviewPath, alice, gin.H{"content": "Great game, loved it!", "rating": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("create review: got %d (%s)", w.Code, w.Body.String())
	}
	var review models.Review
	json.Unmarshal(w.Body.Bytes(), &review)

	if w := request(t, r, http.MethodPost, reviewPath, alice, gin.H{"content": "Second try", "rating": 4}); w.Code != http.StatusConflict {
		t.Errorf("duplicate review: got %d, want 409", w.Code)
	}

	// Concurrent duplicates: exactly one insert wins
	var wg sync.WaitGroup
	codes := make(chan int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := request(t, r, http.MethodPost, reviewPath, bob, gin.H{"content": "Race condition test", "rating": 3})
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)
	successes := 0
	for code := range codes {
		if code == http.StatusOK {
			successes++
		}
	}
	if successes != 1 {
		t.Errorf("concurrent duplicate creates: %d succeeded, want exactly 1", successes)
	}
	var bobReviews int64
	db.DB.Model(&models.Review{}).Where("game_id = ? AND user_id <> ?", game.ID, review.UserID).Count(&bobReviews)
	if bobReviews != 1 {
		t.Errorf("bob has %d reviews for the game, want 1", bobReviews)
	}

	// Listing includes author and rating
	w = request(t, r, http.MethodGet, reviewPath, "", nil)
	var listed []models.Review
	json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed) != 2 {
		t.Fatalf("game reviews: got %d, want 2", len(listed))
	}
	foundAlice := false
	for _, rv := range listed {
		if rv.User != nil && rv.User.Username == "alice" && rv.Rating == 5 {
			foundAlice = true
		}
		if rv.User != nil && rv.User.Email != "" {
			t.Error("review author must expose username only, not email")
		}
	}
	if !foundAlice {
		t.Error("alice's 5-star review missing from game listing")
	}

	// Ownership: only the author mutates
	ownPath := fmt.Sprintf("/reviews/%d", review.ID)
	if w := request(t, r, http.MethodPut, ownPath, bob, gin.H{"content": "Hijacked content", "rating": 1}); w.Code != http.StatusForbidden {
		t.Errorf("bob updating alice's review: got %d, want 403", w.Code)
	}
	if w := request(t, r, http.MethodDelete, ownPath, bob, nil); w.Code != http.StatusForbidden {
		t.Errorf("bob deleting alice's review: got %d, want 403", w.Code)
	}
	w = request(t, r, http.MethodPut, ownPath, alice, gin.H{"content": "Still great on replay", "rating": "4"})
	if w.Code != http.StatusOK {
		t.Errorf("alice updating own review: got %d (%s)", w.Code, w.Body.String())
	}
	if w := request(t, r, http.MethodPut, ownPath, alice, gin.H{"content": "Bad rating", "rating": "lots"}); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric rating: got %d, want 400", w.Code)
	}

	// Comment thread under the review
	commentPath := fmt.Sprintf("/reviews/%d/comments", review.ID)
	w = request(t, r, http.MethodPost, commentPath, bob, gin.H{"content": "Totally agree"})
	if w.Code != http.StatusOK {
		t.Fatalf("create comment: got %d (%s)", w.Code, w.Body.String())
	}
	var comment models.Comment
	json.Unmarshal(w.Body.Bytes(), &comment)

	if w := request(t, r, http.MethodPut, fmt.Sprintf("/comments/%d", comment.ID), alice, gin.H{"content": "Edited by non-owner"}); w.Code != http.StatusForbidden {
		t.Errorf("alice editing bob's comment: got %d, want 403", w.Code)
	}
	if w := request(t, r, http.MethodPost, "/reviews/999999/comments", bob, gin.H{"content": "orphan"}); w.Code != http.StatusNotFound {
		t.Errorf("comment on missing review: got %d, want 404", w.Code)
	}

	// Directory: admin sees review counts, users are shut out
	if w := request(t, r, http.MethodGet, "/admin/users", alice, nil); w.Code != http.StatusForbidden {
		t.Errorf("user listing directory: got %d, want 403", w.Code)
	}
	w = request(t, r, http.MethodGet, "/admin/users", root, nil)
	var users []UserSummary
	json.Unmarshal(w.Body.Bytes(), &users)
	if len(users) != 3 {
		t.Errorf("directory: got %d users, want 3", len(users))
	}
	for _, u := range users {
		if u.Username == "alice" && u.ReviewCount != 1 {
			t.Errorf("alice review count: got %d, want 1", u.ReviewCount)
		}
	}

	// Cascade: deleting the game removes reviews and their comments atomically
	w = request(t, r, http.MethodDelete, fmt.Sprintf("/games/%d", game.ID), root, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete game: got %d (%s)", w.Code, w.Body.String())
	}
	w = request(t, r, http.MethodGet, reviewPath, "", nil)
	json.Unmarshal(w.Body.Bytes(), &listed)
	if len(listed) != 0 {
		t.Errorf("reviews after game delete: got %d, want 0", len(listed))
	}
	var orphans int64
	db.DB.Model(&models.Comment{}).Count(&orphans)
	if orphans != 0 {
		t.Errorf("comments after game delete: got %d, want 0", orphans)
	}
}

func TestRoleReassignment(t *testing.T) {
	r := setupIntegration(t)
	root := adminToken(t, r)
	signupUser(t, r, "carol")

	var carol models.User
	if err := db.DB.Where("username = ?", "carol").First(&carol).Error; err != nil {
		t.Fatalf("load carol: %v", err)
	}

	if w := request(t, r, http.MethodPut, fmt.Sprintf("/admin/users/%d", carol.ID), root, gin.H{"role": "superuser"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid role: got %d, want 400", w.Code)
	}

	w := request(t, r, http.MethodPut, fmt.Sprintf("/admin/users/%d", carol.ID), root, gin.H{"role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("promote carol: got %d (%s)", w.Code, w.Body.String())
	}
	var updated models.User
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Role != "admin" {
		t.Errorf("carol role after promotion: %q, want admin", updated.Role)
	}

	if w := request(t, r, http.MethodPut, "/admin/users/999999", root, gin.H{"role": "user"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown user: got %d, want 404", w.Code)
	}
}
