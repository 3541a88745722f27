package main

import (
	"database/sql"
	"log"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"terraUrbBack/internal/handlers"
	"terraUrbBack/internal/repositories"
	"terraUrbBack/internal/services"
	"terraUrbBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger

	jwtKey       string
	tokenManager *utils.Manager

	db          *sql.DB
	userRepo    *repositories.UserRepository
	sessionRepo *repositories.SessionRepository
	codeRepo    *repositories.VerificationCodeRepository

	complaintHandler *handlers.ComplaintHandler
	commentHandler   *handlers.CommentHandler
	tagHandler       *handlers.TagHandler
	reportHandler    *handlers.ReportHandler
	userHandler      *handlers.UserHandler
	statsHandler     *handlers.StatsHandler
}

func initializeApp(db *sql.DB, redisClient *redis.Client, tokenManager *utils.Manager, mailer *utils.Mailer, jwtKey string, errorLog, infoLog *log.Logger) *application {
	// Repositories
	complaintRepo := repositories.ComplaintRepository{DB: db}
	commentRepo := repositories.CommentRepository{DB: db}
	tagRepo := repositories.TagRepository{DB: db}
	reportRepo := repositories.ReportRepository{DB: db}
	userRepo := repositories.UserRepository{DB: db}
	sessionRepo := repositories.SessionRepository{DB: db}
	codeRepo := repositories.VerificationCodeRepository{DB: db}
	activityRepo := repositories.ActivityLogRepository{DB: db}

	// Services
	complaintService := &services.ComplaintService{
		ComplaintRepo: &complaintRepo,
		TagRepo:       &tagRepo,
		CommentRepo:   &commentRepo,
		ActivityRepo:  &activityRepo,
	}
	commentService := &services.CommentService{
		CommentRepo:   &commentRepo,
		ComplaintRepo: &complaintRepo,
	}
	tagService := &services.TagService{
		TagRepo:       &tagRepo,
		ComplaintRepo: &complaintRepo,
	}
	reportService := &services.ReportService{
		ReportRepo:    &reportRepo,
		ComplaintRepo: &complaintRepo,
		CommentRepo:   &commentRepo,
		ActivityRepo:  &activityRepo,
	}
	userService := &services.UserService{
		UserRepo:     &userRepo,
		SessionRepo:  &sessionRepo,
		CodeRepo:     &codeRepo,
		ActivityRepo: &activityRepo,
		TokenManager: tokenManager,
		Mailer:       mailer,
	}
	statsService := &services.StatsService{
		ComplaintRepo: &complaintRepo,
		UserRepo:      &userRepo,
		CommentRepo:   &commentRepo,
		ReportRepo:    &reportRepo,
		ActivityRepo:  &activityRepo,
		Redis:         redisClient,
	}

	return &application{
		errorLog:     errorLog,
		infoLog:      infoLog,
		jwtKey:       jwtKey,
		tokenManager: tokenManager,
		db:           db,
		userRepo:     &userRepo,
		sessionRepo:  &sessionRepo,
		codeRepo:     &codeRepo,

		complaintHandler: &handlers.ComplaintHandler{Service: complaintService},
		commentHandler:   &handlers.CommentHandler{Service: commentService},
		tagHandler:       &handlers.TagHandler{Service: tagService},
		reportHandler:    &handlers.ReportHandler{Service: reportService},
		userHandler:      &handlers.UserHandler{Service: userService},
		statsHandler:     &handlers.StatsHandler{Service: statsService},
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
