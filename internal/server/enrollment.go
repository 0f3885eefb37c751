package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	enrollmentdomain "github.com/lernora/lernora/internal/enrollment/domain"
)

// PayCourse debits the authenticated user's bonus balance and grants course
// access. Responds 201 for both first purchases and repurchases.
func (s *Server) PayCourse(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	result, err := s.enrollmentSvc.Purchase(c.Request.Context(), enrollmentdomain.PurchaseRequest{
		UserID:   userID,
		CourseID: strings.TrimSpace(c.Param("course_id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

func (s *Server) ListMySubscriptions(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	subs, err := s.enrollmentSvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": subs})
}
