package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	coursedomain "github.com/lernora/lernora/internal/course/domain"
	"github.com/lernora/lernora/pkg/db/pagination"
)

func (s *Server) CreateCourse(c *gin.Context) {
	var req coursedomain.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	course, err := s.courseSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": course})
}

func (s *Server) UpdateCourse(c *gin.Context) {
	var req coursedomain.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("course_id"))

	course, err := s.courseSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": course})
}

func (s *Server) DeleteCourse(c *gin.Context) {
	if err := s.courseSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("course_id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) GetCourseByID(c *gin.Context) {
	course, err := s.courseSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("course_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": course})
}

func (s *Server) ListCourses(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Author string `form:"author"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.courseSvc.List(c.Request.Context(), coursedomain.ListCourseRequest{
		Author:    strings.TrimSpace(query.Author),
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Courses, "page_info": resp.PageInfo})
}
