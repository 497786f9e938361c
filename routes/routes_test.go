package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pupcare/config"
	"pupcare/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "api.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	hub := services.NewRealtimeHub()
	feed := services.NewChangeFeed(hub, services.NewAlertBus(db, nil, nil), nil, nil)
	puppies := services.NewPuppyService(db, nil, time.UTC)
	days := services.NewDayLogService(db, feed, time.UTC)
	health := services.NewHealthService(db, feed, time.UTC)
	analytics := services.NewAnalyticsService(days, health, puppies, time.UTC)

	router := SetupRouter(Deps{
		DB:        db,
		Auth:      services.NewAuthService(db, "test-secret", time.Hour),
		Users:     services.NewUserService(db),
		Puppies:   puppies,
		Members:   services.NewMemberService(db, nil, feed, nil),
		Days:      days,
		Health:    health,
		Analytics: analytics,
		Chat:      services.NewChatService(services.ChatConfig{}, analytics),
		Hub:       hub,
	})
	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) decode(w *httptest.ResponseRecorder, out any) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

// signup registers and logs in, returning the bearer token.
func (s *testServer) signup(email string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": email, "password": "password1", "full_name": email})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": "password1"})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	s.decode(w, &res)
	require.NotEmpty(s.t, res.Token)
	return res.Token
}

// invite has the owner invite email with role and the invitee accept it.
func (s *testServer) invite(ownerToken string, puppyID uint, email, role, inviteeToken string) {
	s.t.Helper()
	w := s.do(http.MethodPost, fmt.Sprintf("/api/puppies/%d/invitations", puppyID), ownerToken, gin.H{"email": email, "role": role})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var inv struct {
		Token string `json:"token"`
	}
	s.decode(w, &inv)

	w = s.do(http.MethodPost, "/api/invitations/"+inv.Token+"/accept", inviteeToken, nil)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
}

func (s *testServer) createPuppy(token, name string) uint {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/puppies", token, gin.H{"name": name, "birth_date": "2024-01-01"})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var p struct {
		ID uint `json:"ID"`
	}
	s.decode(w, &p)
	require.NotZero(s.t, p.ID)
	return p.ID
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/puppies", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/puppies", "not-a-jwt", nil).Code)

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@example.com", "password": "password1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("owner@example.com")

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/user/profile", token, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/user/profile", token, nil).Code)
}

func TestRolesGateMutations(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("owner@example.com")
	editor := s.signup("editor@example.com")
	viewer := s.signup("viewer@example.com")
	stranger := s.signup("stranger@example.com")

	id := s.createPuppy(owner, "Biscuit")
	s.invite(owner, id, "editor@example.com", "editor", editor)
	s.invite(owner, id, "viewer@example.com", "viewer", viewer)

	potty := fmt.Sprintf("/api/puppies/%d/logs/2024-03-01/potty", id)
	entry := gin.H{"time": "07:00", "pee": "good", "poop": "accident"}

	w := s.do(http.MethodPost, potty, viewer, entry)
	assert.Equal(t, http.StatusForbidden, w.Code, "viewers cannot write")
	w = s.do(http.MethodPost, potty, stranger, entry)
	assert.Equal(t, http.StatusForbidden, w.Code, "non-members cannot write")
	w = s.do(http.MethodPost, potty, editor, entry)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	s.decode(w, &created)

	// viewers read
	w = s.do(http.MethodGet, fmt.Sprintf("/api/puppies/%d/logs/2024-03-01", id), viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var log struct {
		PottyBreaks []struct {
			ID string `json:"id"`
		} `json:"potty_breaks"`
	}
	s.decode(w, &log)
	require.Len(t, log.PottyBreaks, 1)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, fmt.Sprintf("/api/puppies/%d", id), stranger, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPut, fmt.Sprintf("/api/puppies/%d", id), viewer, gin.H{"breed": "Lab"}).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, fmt.Sprintf("/api/puppies/%d", id), editor, gin.H{"breed": "Lab"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, fmt.Sprintf("/api/puppies/%d", id), editor, nil).Code, "only owners delete")
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, fmt.Sprintf("/api/puppies/%d/invitations", id), editor, gin.H{"email": "x@example.com", "role": "viewer"}).Code)

	del := fmt.Sprintf("%s/%s", potty, created.ID)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, del, viewer, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, del, editor, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, del, editor, nil).Code)

	// the owner was alerted about the accident
	w = s.do(http.MethodGet, "/api/user/alerts", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Potty accident logged on 2024-03-01 at 07:00")
}

func TestStatsEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("owner@example.com")
	id := s.createPuppy(owner, "Biscuit")
	today := time.Now().UTC().Format("2006-01-02")
	base := fmt.Sprintf("/api/puppies/%d", id)

	w := s.do(http.MethodPost, base+"/logs/"+today+"/meals", owner, gin.H{"time": "08:00", "given": "1 cup", "eaten": "All of it"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPut, base+"/logs/"+today, owner, gin.H{"snacks": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodPost, base+"/logs/"+today+"/naps", owner, gin.H{"start": "13:00", "end": "14:30"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, base+"/stats/day/"+today, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var day services.DaySummary
	s.decode(w, &day)
	assert.Equal(t, 417.0, day.Calories)
	assert.Equal(t, 90, day.NapMinutes)

	w = s.do(http.MethodGet, base+"/stats/summary?range=30d", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum services.RangeSummary
	s.decode(w, &sum)
	assert.Len(t, sum.Days, 30)
	assert.Equal(t, today, sum.To)
	assert.Equal(t, 1, sum.DaysLogged)

	w = s.do(http.MethodGet, base+"/stats/schedule?range=7d&kind=nap", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var chart services.ScheduleChart
	s.decode(w, &chart)
	require.Len(t, chart.Rows, 7)
	require.Len(t, chart.Rows[6].Marks, 1)
	assert.InDelta(t, 7.0/15, chart.Rows[6].Marks[0].Position, 1e-4)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, base+"/stats/week", owner, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, base+"/stats/summary?range=90d", owner, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, base+"/stats/schedule?kind=meals", owner, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, base+"/stats/day/yesterday", owner, nil).Code)
}

func TestHealthRecordsAndChatUnavailable(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("owner@example.com")
	id := s.createPuppy(owner, "Biscuit")
	base := fmt.Sprintf("/api/puppies/%d", id)

	w := s.do(http.MethodPost, base+"/health", owner, gin.H{"category": "vaccination", "date": "2024-03-01", "title": "Rabies"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = s.do(http.MethodPost, base+"/health", owner, gin.H{"category": "spa", "date": "2024-03-01", "title": "Bath"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, base+"/health?category=vaccination", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rabies")

	w = s.do(http.MethodPost, base+"/chat", owner, gin.H{"question": "How is potty training going?"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = s.do(http.MethodPost, base+"/photo", owner, gin.H{"image_base64": "data:image/png;base64,AAAA"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMembersEndpoints(t *testing.T) {
	s := newTestServer(t)
	owner := s.signup("owner@example.com")
	friend := s.signup("friend@example.com")
	id := s.createPuppy(owner, "Biscuit")
	s.invite(owner, id, "friend@example.com", "viewer", friend)

	w := s.do(http.MethodGet, fmt.Sprintf("/api/puppies/%d/members", id), friend, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var members []struct {
		UserID uint   `json:"user_id"`
		Role   string `json:"role"`
	}
	s.decode(w, &members)
	require.Len(t, members, 2)
	friendID := members[1].UserID

	path := fmt.Sprintf("/api/puppies/%d/members/%d", id, friendID)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPut, path, owner, gin.H{"role": "editor"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, path, owner, gin.H{"role": "admin"}).Code)

	// the promoted member can now write
	w = s.do(http.MethodPost, fmt.Sprintf("/api/puppies/%d/weights", id), friend, gin.H{"date": "2024-03-01", "weight": 11.2})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, path, owner, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, fmt.Sprintf("/api/puppies/%d", id), friend, nil).Code)

	w = s.do(http.MethodGet, "/api/puppies", friend, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}
