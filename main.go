package main

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"

	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/auth"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/catalog"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/config"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/events"
	repo2 "github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/repository"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/server"
	"github.com/HoaLinhNhi-2004/web-doc-truyen-sub000/wallet"
)

func main() {
	cfg := config.Load()

	db, err := repo2.Open(cfg.Database)
	if err != nil {
		log.Fatalf("error opening database %s", err)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: "", DB: 0})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("error creating redis client %s", err)
	}

	users := repo2.NewUserRepo(db)
	stories := repo2.NewStoryRepo(db)
	chapters := repo2.NewChapterRepo(db)
	unlocks := repo2.NewUnlockRepo(db)
	ledger := repo2.NewTransactionRepo(db)

	publisher := events.NewPublisher(client)
	consumer := events.NewConsumer(client)
	go consumer.Run(context.Background())

	walletSvc := wallet.NewService(db, chapters, unlocks, ledger, publisher)
	catalogSvc := catalog.NewService(stories, chapters)
	authSvc := auth.NewService(users, cfg.JWTSecret, cfg.TokenTTL)

	srv := server.New(authSvc, catalogSvc, walletSvc, users, consumer)
	router := srv.Router()
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server stopped %s", err)
	}
}
