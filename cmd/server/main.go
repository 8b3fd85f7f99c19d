package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/catalog"
	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/handlers"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/payment"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/store"
	httpserver "github.com/Skotchmaster/storefront/internal/transport/http"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/db"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	ctx := context.Background()
	database, err := db.Open(ctx, configuration.DATABASE_URL, configuration.SESSION_DB)
	if err != nil {
		log.Fatalf("session db error: %v", err)
	}

	sessions, err := session.NewStore(database)
	if err != nil {
		log.Fatal(err)
	}

	globalStore := store.New()
	if sess, err := sessions.Current(ctx); err == nil {
		globalStore.SetToken(sess.Token)
	}

	var producer *mykafka.Producer
	if brokers := configuration.KafkaBrokers(); len(brokers) > 0 {
		producer, err = mykafka.NewProducer(brokers)
		if err != nil {
			log.Fatal(err)
		}
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	api := apiclient.New(configuration.API_BASE_URL)
	tokenizer := payment.NewStripeClient(configuration.STRIPE_URL, configuration.STRIPE_KEY)

	auth := &handlers.Auth{
		Sessions: sessions,
		Secret:   []byte(configuration.SESSION_SECRET),
		Store:    globalStore,
		API:      api,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Logger:          logger,
		AuthHandler:     &handlers.AuthHandler{Auth: auth, LoginPath: configuration.LOGIN_PATH, Producer: producer},
		ProductHandler:  &handlers.ProductHandler{Catalog: catalog.New(api, esClient, "product")},
		CartHandler:     &handlers.CartHandler{Auth: auth, Producer: producer},
		AddressHandler:  &handlers.AddressHandler{Auth: auth},
		CheckoutHandler: &handlers.CheckoutHandler{Auth: auth, Tokenizer: tokenizer, Producer: producer},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.LISTEN_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
