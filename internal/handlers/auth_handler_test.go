package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"node-cache-api/internal/auth"
	"node-cache-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postLogin(r *gin.Engine, username, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_CreatesUserIfNotExists(t *testing.T) {
	db := setupDB(t)
	r := gin.New()
	r.POST("/api/login", Login)

	w := postLogin(r, "newuser", "sha256-from-fe")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, claims.UserID)

	var stored models.User
	require.NoError(t, db.Where("username = ?", "newuser").First(&stored).Error)
	require.NotEqual(t, "sha256-from-fe", stored.Password)
	require.True(t, auth.CheckPassword(stored.Password, "sha256-from-fe"))
}

func TestLogin_ExistingUser(t *testing.T) {
	setupDB(t)
	r := gin.New()
	r.POST("/api/login", Login)

	first := postLogin(r, "alice", "pw")
	require.Equal(t, http.StatusOK, first.Code)
	second := postLogin(r, "alice", "pw")
	require.Equal(t, http.StatusOK, second.Code)

	var a, b LoginResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	require.Equal(t, a.UserID, b.UserID)

	wrong := postLogin(r, "alice", "nope")
	require.Equal(t, http.StatusUnauthorized, wrong.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	setupDB(t)
	r := gin.New()
	r.POST("/api/login", Login)

	w := postLogin(r, "alice", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_ConcurrentFirstLogins_ShareOneUser(t *testing.T) {
	db := setupDB(t)
	r := gin.New()
	r.POST("/api/login", Login)

	const attempts = 6
	codes := make([]int, attempts)
	ids := make([]string, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := postLogin(r, "carol", "pw")
			codes[i] = w.Code
			var resp LoginResponse
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			ids[i] = resp.UserID
		}()
	}
	wg.Wait()

	for i := 0; i < attempts; i++ {
		require.Equal(t, http.StatusOK, codes[i])
		require.Equal(t, ids[0], ids[i])
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "carol").Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestLoginUser_LosesRegistrationRace(t *testing.T) {
	db := setupDB(t)

	hash, err := auth.HashPassword("first")
	require.NoError(t, err)
	winner := models.User{ID: "u-winner", Username: "dave", Password: hash}

	// the winner's row lands between this caller's lookup and its insert
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:insert_winner", func(tx *gorm.DB) {
		if u, ok := tx.Statement.Dest.(*models.User); ok && u.ID != winner.ID {
			require.NoError(t, tx.Session(&gorm.Session{NewDB: true, SkipHooks: true}).Exec(
				"INSERT INTO users (id, username, password, created_at, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
				winner.ID, winner.Username, winner.Password).Error)
		}
	}))

	user, err := loginUser(db, "dave", "first")
	require.NoError(t, err)
	require.Equal(t, "u-winner", user.ID)

	_, err = loginUser(db, "dave", "second")
	require.ErrorIs(t, err, errBadCredentials)
}
