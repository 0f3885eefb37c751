package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	balancedomain "github.com/lernora/lernora/internal/balance/domain"
)

func (s *Server) GetMyBalance(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	balance, err := s.balanceSvc.Get(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": balance})
}

// CreditBalance adds bonus points to a user's balance. Staff only.
func (s *Server) CreditBalance(c *gin.Context) {
	var req balancedomain.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.UserID = strings.TrimSpace(c.Param("user_id"))

	balance, err := s.balanceSvc.Credit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": balance})
}
