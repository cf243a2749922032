package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kinfolkhq/kinfolk-backend/internal/content"
	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
	"github.com/kinfolkhq/kinfolk-backend/internal/http/middleware"
	"github.com/kinfolkhq/kinfolk-backend/internal/observability"
	"github.com/kinfolkhq/kinfolk-backend/internal/repos"
	"github.com/kinfolkhq/kinfolk-backend/internal/repos/testutil"
)

func newTestEngine(t *testing.T, class types.ContentClass) *content.Engine {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	return content.NewEngine(
		log,
		content.NewMemoryPool(),
		content.NewStaticCorpus(),
		content.NewClassifier(class),
		nil,
		repos.NewContentRecordRepo(db, log),
		repos.NewConsumerHistoryRepo(db, log),
		nil,
		observability.NewMetrics(),
		content.EngineConfig{Class: class},
	)
}

func contentTestRouter(t *testing.T, consumerID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewContentHandler(
		newTestEngine(t, types.ClassQuestion),
		newTestEngine(t, types.ClassTodo),
	)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ConsumerIDKey, consumerID)
		c.Next()
	})
	r.POST("/api/content/questions/next", h.NextQuestion)
	r.POST("/api/content/todos/next", h.NextTodo)
	r.POST("/api/content/records/:id/reuse", h.ReuseRecord)
	r.GET("/api/content/pools", h.PoolStatus)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestNextQuestionReturnsContent(t *testing.T) {
	r := contentTestRouter(t, "consumer-"+uuid.New().String())

	rec := postJSON(r, "/api/content/questions/next", `{"category":"DAILY","forceNew":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=%d body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var payload struct {
		Content types.ContentRecord `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Content.Text == "" {
		t.Fatalf("empty content text")
	}
	if payload.Content.Category != types.CategoryDaily {
		t.Fatalf("category: got=%s want=%s", payload.Content.Category, types.CategoryDaily)
	}
}

func TestNextQuestionRejectsUnknownCategory(t *testing.T) {
	r := contentTestRouter(t, "consumer-"+uuid.New().String())

	rec := postJSON(r, "/api/content/questions/next", `{"category":"TRAVEL"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusBadRequest)
	}
}

func TestNextQuestionRateLimited(t *testing.T) {
	r := contentTestRouter(t, "consumer-"+uuid.New().String())

	for i := 0; i < 5; i++ {
		rec := postJSON(r, "/api/content/questions/next", `{"forceNew":true}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("call %d: status=%d body=%s", i+1, rec.Code, rec.Body.String())
		}
	}

	rec := postJSON(r, "/api/content/questions/next", `{"forceNew":true}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("sixth call: got=%d want=%d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestReuseRecord(t *testing.T) {
	consumer := "consumer-" + uuid.New().String()
	r := contentTestRouter(t, consumer)

	issue := postJSON(r, "/api/content/todos/next", `{"forceNew":true}`)
	if issue.Code != http.StatusOK {
		t.Fatalf("issue: status=%d", issue.Code)
	}
	var payload struct {
		Content types.ContentRecord `json:"content"`
	}
	if err := json.Unmarshal(issue.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}

	reuse := postJSON(r, "/api/content/records/"+payload.Content.ID.String()+"/reuse", "")
	if reuse.Code != http.StatusOK {
		t.Fatalf("reuse: status=%d body=%s", reuse.Code, reuse.Body.String())
	}

	bad := postJSON(r, "/api/content/records/not-a-uuid/reuse", "")
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("bad id: got=%d want=%d", bad.Code, http.StatusBadRequest)
	}
}

func TestPoolStatus(t *testing.T) {
	r := contentTestRouter(t, "consumer-"+uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/api/content/pools", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=%d", rec.Code, http.StatusOK)
	}
	var payload struct {
		Pools map[string]map[string]int `json:"pools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := payload.Pools["question"]; !ok {
		t.Fatalf("missing question pools: %s", rec.Body.String())
	}
	if _, ok := payload.Pools["todo"]; !ok {
		t.Fatalf("missing todo pools: %s", rec.Body.String())
	}
}
