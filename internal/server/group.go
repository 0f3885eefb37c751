package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	groupdomain "github.com/lernora/lernora/internal/group/domain"
)

func (s *Server) CreateGroup(c *gin.Context) {
	var req groupdomain.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CourseID = strings.TrimSpace(c.Param("course_id"))

	group, err := s.groupSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": group})
}

func (s *Server) DeleteGroup(c *gin.Context) {
	err := s.groupSvc.Delete(
		c.Request.Context(),
		strings.TrimSpace(c.Param("course_id")),
		strings.TrimSpace(c.Param("group_id")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListGroups(c *gin.Context) {
	groups, err := s.groupSvc.ListByCourse(c.Request.Context(), strings.TrimSpace(c.Param("course_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": groups})
}
