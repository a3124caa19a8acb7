package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
)

func (s *Server) approveDeposit(c *gin.Context) {
	entry, err := s.wallet.ApproveDeposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTxDTO(entry))
}

func (s *Server) rejectDeposit(c *gin.Context) {
	entry, err := s.wallet.RejectDeposit(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTxDTO(entry))
}

func (s *Server) pendingDeposits(c *gin.Context) {
	entries, err := s.wallet.PendingDeposits(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"deposits": lo.Map(entries, func(item repo2.Transaction, index int) txDTO {
			return toTxDTO(item)
		}),
	})
}

func (s *Server) grant(c *gin.Context) {
	var req domain.GrantRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := s.wallet.AdminGrant(c.Request.Context(), req.UserId, req.Amount, req.Note)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTxDTO(entry))
}

func (s *Server) createStory(c *gin.Context) {
	var req domain.CreateStoryRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	story, err := s.catalog.CreateStory(c.Request.Context(), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, story)
}

func (s *Server) createChapter(c *gin.Context) {
	var req domain.CreateChapterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chapter, err := s.catalog.CreateChapter(c.Request.Context(), req)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (s *Server) setPrice(c *gin.Context) {
	var req domain.SetPriceRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.catalog.SetChapterPrice(c.Request.Context(), c.Param("id"), req.Price); err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (s *Server) banUser(c *gin.Context) {
	if err := s.users.SetBanned(c.Request.Context(), c.Param("id"), true); err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (s *Server) unbanUser(c *gin.Context) {
	if err := s.users.SetBanned(c.Request.Context(), c.Param("id"), false); err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (s *Server) reconcile(c *gin.Context) {
	if err := s.wallet.Reconcile(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ledger balanced"})
}

func (s *Server) stats(c *gin.Context) {
	if s.consumer == nil {
		c.JSON(http.StatusOK, gin.H{"unlock_counts": gin.H{}})
		return
	}
	counts, err := s.consumer.UnlockCounts(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unlock_counts": counts})
}
