package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
)

func (s *Server) CreateLesson(c *gin.Context) {
	var req coursedomain.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CourseID = strings.TrimSpace(c.Param("course_id"))

	lesson, err := s.courseSvc.CreateLesson(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": lesson})
}

func (s *Server) UpdateLesson(c *gin.Context) {
	var req coursedomain.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.CourseID = strings.TrimSpace(c.Param("course_id"))
	req.ID = strings.TrimSpace(c.Param("lesson_id"))

	lesson, err := s.courseSvc.UpdateLesson(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lesson})
}

func (s *Server) DeleteLesson(c *gin.Context) {
	err := s.courseSvc.DeleteLesson(
		c.Request.Context(),
		strings.TrimSpace(c.Param("course_id")),
		strings.TrimSpace(c.Param("lesson_id")),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ListLessons(c *gin.Context) {
	lessons, err := s.courseSvc.ListLessons(c.Request.Context(), strings.TrimSpace(c.Param("course_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": lessons})
}
