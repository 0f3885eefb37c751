package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	enrollmentdomain "github.com/lernora/lernora/internal/enrollment/domain"
)

type fakeEnrollmentService struct {
	result        enrollmentdomain.PurchaseResult
	err           error
	purchaseCalls int
	lastRequest   enrollmentdomain.PurchaseRequest
}

func (f *fakeEnrollmentService) Purchase(ctx context.Context, req enrollmentdomain.PurchaseRequest) (enrollmentdomain.PurchaseResult, error) {
	f.purchaseCalls++
	f.lastRequest = req
	_ = ctx
	if f.err != nil {
		return enrollmentdomain.PurchaseResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeEnrollmentService) ListByUser(ctx context.Context, userID string) ([]enrollmentdomain.SubscriptionView, error) {
	_ = ctx
	_ = userID
	return nil, nil
}

func setTestUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(contextUserIDKey, userID)
		}
		c.Next()
	}
}

func newPayRouter(svc enrollmentdomain.Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{enrollmentSvc: svc}

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/v1/courses/:course_id/pay", setTestUser(userID), srv.PayCourse)
	return router
}

func TestPayCourseReturns201(t *testing.T) {
	svc := &fakeEnrollmentService{
		result: enrollmentdomain.PurchaseResult{
			Subscription: enrollmentdomain.Subscription{
				ID:            snowflake.ID(10),
				UserID:        snowflake.ID(200),
				CourseID:      snowflake.ID(300),
				AccessGranted: true,
			},
		},
	}
	router := newPayRouter(svc, "200")

	req := httptest.NewRequest(http.MethodPost, "/v1/courses/300/pay", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if svc.purchaseCalls != 1 {
		t.Fatalf("expected one purchase call, got %d", svc.purchaseCalls)
	}
	if svc.lastRequest.UserID != "200" || svc.lastRequest.CourseID != "300" {
		t.Fatalf("unexpected purchase request: %+v", svc.lastRequest)
	}
}

func TestPayCourseInsufficientFundsReturns400WithMessage(t *testing.T) {
	svc := &fakeEnrollmentService{err: enrollmentdomain.ErrInsufficientFunds}
	router := newPayRouter(svc, "200")

	req := httptest.NewRequest(http.MethodPost, "/v1/courses/300/pay", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Message != insufficientFundsMessage {
		t.Fatalf("expected %q, got %q", insufficientFundsMessage, body.Error.Message)
	}
	if body.Error.Type != "insufficient_funds" {
		t.Fatalf("expected insufficient_funds type, got %q", body.Error.Type)
	}
}

func TestPayCourseUnknownCourseReturns404(t *testing.T) {
	svc := &fakeEnrollmentService{err: coursedomain.ErrNotFound}
	router := newPayRouter(svc, "200")

	req := httptest.NewRequest(http.MethodPost, "/v1/courses/999/pay", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestPayCourseWithoutUserReturns401(t *testing.T) {
	svc := &fakeEnrollmentService{}
	router := newPayRouter(svc, "")

	req := httptest.NewRequest(http.MethodPost, "/v1/courses/300/pay", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
	if svc.purchaseCalls != 0 {
		t.Fatal("expected purchase service not to be called")
	}
}
