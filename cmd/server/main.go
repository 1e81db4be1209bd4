package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"github.com/db_contact_go/internal/api"
	"github.com/db_contact_go/internal/config"
	"github.com/db_contact_go/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	dsn, err := cfg.Connection.DSN()
	if err != nil {
		log.Fatalf("failed to build dsn: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Connect to MySQL using database/sql. Every store call checks out its
	// own connection from this pool and returns it before the call ends.
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	defer db.Close()

	log.Printf("connected to mysql catalog %s", cfg.Connection.InitialCatalog)

	contactStore := store.NewContactStore(db)
	contactInfoStore := store.NewContactInfoStore(db)
	entityReader := store.NewContactEntityReader(contactStore, contactInfoStore)

	router := gin.Default()
	api.NewHandler(contactStore, contactInfoStore, entityReader).Register(router)

	log.Printf("starting http server on %s", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("http server error: %v", err)
	}
}
