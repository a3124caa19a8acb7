package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/auth"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/catalog"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/domain"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/events"
	log2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/log"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/wallet"
)

type Server struct {
	auth     *auth.Service
	catalog  *catalog.Service
	wallet   *wallet.Service
	users    repo2.UserRepository
	consumer *events.Consumer
}

func New(
	authSvc *auth.Service,
	catalogSvc *catalog.Service,
	walletSvc *wallet.Service,
	users repo2.UserRepository,
	consumer *events.Consumer,
) *Server {
	return &Server{
		auth:     authSvc,
		catalog:  catalogSvc,
		wallet:   walletSvc,
		users:    users,
		consumer: consumer,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.Default()
	router.Use(requestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	api.Use(s.auth.Identity())

	api.POST("/register", s.register)
	api.POST("/login", s.login)

	api.GET("/stories", s.listStories)
	api.GET("/stories/:id", s.getStory)
	api.GET("/chapter/:id", s.getChapter)

	api.POST("/purchase", auth.RequireAuth(), s.purchase)
	api.POST("/deposit", auth.RequireAuth(), s.deposit)
	api.GET("/wallet", auth.RequireAuth(), s.walletState)

	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin())
	admin.POST("/deposit/:id/approve", s.approveDeposit)
	admin.POST("/deposit/:id/reject", s.rejectDeposit)
	admin.GET("/deposits", s.pendingDeposits)
	admin.POST("/grant", s.grant)
	admin.POST("/stories", s.createStory)
	admin.POST("/chapters", s.createChapter)
	admin.PUT("/chapters/:id/price", s.setPrice)
	admin.POST("/users/:id/ban", s.banUser)
	admin.POST("/users/:id/unban", s.unbanUser)
	admin.GET("/reconcile", s.reconcile)
	admin.GET("/stats", s.stats)

	return router
}

// requestLogger attaches a request-scoped logrus entry so downstream packages
// pick up the request id via log.GetLogger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := log2.WithFields(c.Request.Context(), logrus.Fields{
			"request_id": uuid.New().String(),
			"path":       c.FullPath(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// abortErr maps the error taxonomy onto HTTP statuses. Anything unmapped is a
// storage fault that already rolled back; the caller sees a plain 500.
func abortErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, domain.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		log2.GetLogger(c.Request.Context()).WithError(err).Errorf("request failed: %s", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type txDTO struct {
	Id          string    `json:"id"`
	UserId      string    `json:"user_id"`
	Amount      int64     `json:"amount"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTxDTO(t repo2.Transaction) txDTO {
	return txDTO{
		Id:          t.ID,
		UserId:      t.UserID,
		Amount:      t.Amount,
		Kind:        t.Kind,
		Status:      t.Status,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}
