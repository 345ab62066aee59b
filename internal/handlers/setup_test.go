package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/realtime"
	"github.com/yukikurage/civicconnect-api/internal/repository"
	"github.com/yukikurage/civicconnect-api/internal/services"
	"github.com/yukikurage/civicconnect-api/internal/testutil"
	"github.com/yukikurage/civicconnect-api/internal/token"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	tokens      *token.Manager
	hub         *realtime.Hub
	authService *services.AuthService
	handlers    Handlers
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	tokens := token.NewManager("handler-secret", time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	hub := realtime.NewHub()
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.Done()
	})
	notifier := realtime.NewNotifier(hub)

	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)

	authService := services.NewAuthService(userRepo, tokens)
	h := Handlers{
		Auth:       NewAuthHandler(authService),
		Complaints: NewComplaintHandler(services.NewComplaintService(complaintRepo, userRepo, notifier), nil),
		Users:      NewUserHandler(services.NewUserService(userRepo, complaintRepo)),
		Volunteers: NewVolunteerHandler(services.NewVolunteerService(repository.NewVolunteerRepository(db), notifier)),
		Comments:   NewCommentHandler(services.NewCommentService(repository.NewCommentRepository(db), complaintRepo)),
		WS:         NewWSHandler(hub, tokens, ""),
	}

	r := gin.New()
	RegisterRoutes(r, h, tokens, userRepo)

	return testEnv{
		db:          db,
		router:      r,
		tokens:      tokens,
		hub:         hub,
		authService: authService,
		handlers:    h,
	}
}

func (e testEnv) createUser(t *testing.T, role models.Role) (*models.User, string) {
	t.Helper()
	user := testutil.CreateUser(t, e.db, role)
	signed, err := e.tokens.Issue(user.ID, user.Role)
	require.NoError(t, err)
	return user, signed
}

func (e testEnv) request(t *testing.T, method, path string, body interface{}, bearer string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type testResponse struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Error      string          `json:"error"`
	Code       string          `json:"code"`
	Pagination *struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int   `json:"pages"`
	} `json:"pagination"`
}

// decode parses the envelope and, when data is non-nil, its payload.
func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) testResponse {
	t.Helper()

	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return resp
}

func complaintBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Streetlight out on Park Road",
		"description": "The streetlight outside number 42 has been dark for a week.",
		"category":    "electricity",
		"location": map[string]interface{}{
			"lat":  12.9716,
			"lng":  77.5946,
			"area": "Park Road",
		},
	}
}
