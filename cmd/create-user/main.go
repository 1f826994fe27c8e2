package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin/binding"
	stdlog "github.com/rs/zerolog/log"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/database"
	"github.com/stemsi/trivia-backend/internal/logger"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/repository"
	"github.com/stemsi/trivia-backend/internal/service"
	"github.com/stemsi/trivia-backend/internal/validator"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Component(logger.Setup(cfg.LogLevel, cfg.LogFormat), "create-user")
	validator.Setup()

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	// SignUp does not touch Redis.
	authService := service.NewAuthService(cfg, nil, repository.NewUserRepository(pool), log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Player Account ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}

	req := model.SignUpRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: string(bytePassword),
	}
	if err := binding.Validator.ValidateStruct(req); err != nil {
		for field, msg := range validator.TranslateErrors(err) {
			fmt.Printf("Error: %s: %s\n", field, msg)
		}
		os.Exit(1)
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := authService.SignUp(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			fmt.Println("Error: that email is already registered")
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! User '%s' (%s) created with ID: %s\n", user.Username, user.Email, user.ID)
}
