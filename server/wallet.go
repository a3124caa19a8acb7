package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/auth"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
)

func (s *Server) purchase(c *gin.Context) {
	var req domain.PurchaseRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity := auth.IdentityFrom(c)
	if identity.Banned {
		abortErr(c, domain.ErrForbidden)
		return
	}
	result, err := s.wallet.UnlockChapter(c.Request.Context(), identity.UserID, req.ChapterId)
	if err != nil {
		abortErr(c, err)
		return
	}
	if result.Outcome == domain.UnlockNoFunds {
		c.JSON(http.StatusPaymentRequired, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) deposit(c *gin.Context) {
	var req domain.DepositRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identity := auth.IdentityFrom(c)
	entry, err := s.wallet.RequestDeposit(c.Request.Context(), identity.UserID, req.Amount, req.Description)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toTxDTO(entry))
}

func (s *Server) walletState(c *gin.Context) {
	ctx := c.Request.Context()
	identity := auth.IdentityFrom(c)
	user, err := s.users.GetById(ctx, identity.UserID)
	if err != nil {
		abortErr(c, err)
		return
	}
	entries, err := s.wallet.Statement(ctx, identity.UserID)
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance": user.Balance,
		"statement": lo.Map(entries, func(item repo2.Transaction, index int) txDTO {
			return toTxDTO(item)
		}),
	})
}
