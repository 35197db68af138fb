package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inspection-api/internal/config"
	"github.com/inspection-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/inspection-api/internal/infrastructure/jwt"
	"github.com/inspection-api/internal/infrastructure/memstore"
	s3infra "github.com/inspection-api/internal/infrastructure/s3"
	"github.com/inspection-api/internal/infrastructure/sns"
	transporthttp "github.com/inspection-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for presigned upload/view URLs.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// OTP records live 10 minutes; sweep well after that so eviction never
	// races the service's own expiry check.
	credStore := memstore.New(100_000, 15*time.Minute)

	deps := &transporthttp.Deps{
		InspectionRepo:  dynamo.NewInspectionRepo(dynamoClient, cfg.DynamoTables.Inspections),
		ClientRepo:      dynamo.NewClientRepo(dynamoClient, cfg.DynamoTables.Clients),
		ProjectRepo:     dynamo.NewProjectRepo(dynamoClient, cfg.DynamoTables.Projects),
		CredentialStore: credStore,
		S3Store:         s3Store,
		SMSSender:       smsSender,
		JWTProvider:     jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
