package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/auth"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
)

func (s *Server) register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := s.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err == auth.ErrUsernameTaken {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (s *Server) login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, token, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"id":      user.ID,
		"role":    user.Role,
		"balance": user.Balance,
	})
}

func (s *Server) listStories(c *gin.Context) {
	stories, err := s.catalog.ListStories(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

func (s *Server) getStory(c *gin.Context) {
	story, err := s.catalog.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

// getChapter serves chapter content through the access gate. Denied requests
// still get the chapter metadata, with content omitted and the reason attached
// so the reader UI can tell "log in" from "pay" from "no".
func (s *Server) getChapter(c *gin.Context) {
	ctx := c.Request.Context()
	identity := auth.IdentityFrom(c)
	chapterId := c.Param("id")

	decision, err := s.wallet.CheckAccess(ctx, identity, chapterId)
	if err != nil {
		abortErr(c, err)
		return
	}
	chapter, err := s.catalog.GetChapter(ctx, chapterId)
	if err != nil {
		abortErr(c, err)
		return
	}
	meta := gin.H{
		"id":       chapter.ID,
		"story_id": chapter.StoryID,
		"seq":      chapter.Seq,
		"title":    chapter.Title,
		"price":    chapter.Price,
		"reason":   decision.Reason,
	}
	if decision.Granted {
		meta["content"] = chapter.Content
		c.JSON(http.StatusOK, meta)
		return
	}
	switch decision.Reason {
	case domain.AccessLoginRequired:
		c.JSON(http.StatusUnauthorized, meta)
	case domain.AccessForbidden:
		c.JSON(http.StatusForbidden, meta)
	default:
		c.JSON(http.StatusPaymentRequired, meta)
	}
}
