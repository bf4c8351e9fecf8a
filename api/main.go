package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/nats-io/nats.go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursewire/lms/account"
	"github.com/coursewire/lms/config"
	"github.com/coursewire/lms/course"
	"github.com/coursewire/lms/mail"
	"github.com/coursewire/lms/media"
	"github.com/coursewire/lms/payment"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("connect mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("ping mongo: %v", err)
	}

	db := client.Database(cfg.MongoDB)
	usersCol := db.Collection("users")
	coursesCol := db.Collection("courses")
	paymentsCol := db.Collection("payments")

	if err := account.EnsureAccountIndexes(ctx, usersCol); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	mediaStore, err := media.NewS3Store(ctx, media.Config{
		Region:        cfg.S3Region,
		Endpoint:      cfg.S3Endpoint,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
		UsePathStyle:  cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Fatalf("init media store: %v", err)
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		log.Fatalf("init mailer: %v", err)
	}

	signer := account.NewTokenSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	accounts := account.NewMongoAccountRepository(usersCol)
	accountSvc := account.NewService(accounts, signer, mailer, cfg.FrontendURL, cfg.ResetTokenTTL)

	courseSvc := course.NewService(course.NewMongoCourseRepository(coursesCol), mediaStore)

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret, cfg.RazorpayBaseURL)
	paymentSvc := payment.NewService(payment.NewMongoPaymentRepository(paymentsCol), accounts, gateway, cfg.RazorpayPlanID)

	router := httprouter.New()

	auth := func(h http.Handler) http.Handler { return account.RequireAuth(signer, h) }
	admin := func(h http.Handler) http.Handler { return auth(account.RequireRole(account.RoleAdmin, h)) }
	subscriber := func(h http.Handler) http.Handler { return auth(account.RequireSubscriber(h)) }

	router.Handler(http.MethodPost, "/api/v1/user/register", account.RegisterHandler(accountSvc))
	router.Handler(http.MethodPost, "/api/v1/user/login", account.LoginHandler(accountSvc))
	router.Handler(http.MethodGet, "/api/v1/user/logout", account.LogoutHandler())
	router.Handler(http.MethodGet, "/api/v1/user/me", auth(account.ProfileHandler(accountSvc)))
	router.Handler(http.MethodPut, "/api/v1/user/update", auth(account.UpdateProfileHandler(accountSvc, mediaStore)))
	router.Handler(http.MethodPost, "/api/v1/user/reset", account.ForgotPasswordHandler(accountSvc))
	router.Handler(http.MethodPost, "/api/v1/user/reset/:resetToken", account.ResetPasswordHandler(accountSvc))
	router.Handler(http.MethodPost, "/api/v1/user/change-password", auth(account.ChangePasswordHandler(accountSvc)))

	router.Handler(http.MethodGet, "/api/v1/courses", course.ListCoursesHandler(courseSvc))
	router.Handler(http.MethodPost, "/api/v1/courses", admin(course.CreateCourseHandler(courseSvc, mediaStore)))
	router.Handler(http.MethodDelete, "/api/v1/courses", admin(course.RemoveLectureHandler(courseSvc)))
	router.Handler(http.MethodGet, "/api/v1/courses/:id", subscriber(course.CourseLecturesHandler(courseSvc)))
	router.Handler(http.MethodPut, "/api/v1/courses/:id", admin(course.UpdateCourseHandler(courseSvc)))
	router.Handler(http.MethodDelete, "/api/v1/courses/:id", admin(course.DeleteCourseHandler(courseSvc)))
	router.Handler(http.MethodPost, "/api/v1/courses/:id", admin(course.AddLectureHandler(courseSvc, mediaStore)))

	router.Handler(http.MethodGet, "/api/v1/payments/razorpay-key", auth(payment.APIKeyHandler(paymentSvc)))
	router.Handler(http.MethodPost, "/api/v1/payments/subscribe", auth(payment.SubscribeHandler(paymentSvc)))
	router.Handler(http.MethodPost, "/api/v1/payments/verify", auth(payment.VerifyHandler(paymentSvc)))
	router.Handler(http.MethodPost, "/api/v1/payments/unsubscribe", auth(payment.CancelHandler(paymentSvc)))
	router.Handler(http.MethodGet, "/api/v1/payments", admin(payment.AllPaymentsHandler(paymentSvc)))

	srv := &http.Server{Addr: cfg.HTTPAddress(), Handler: router}

	go func() {
		log.Printf("Server started. Listening on %s", cfg.HTTPAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}
}

// newMailer prefers the notification worker over direct SMTP when a
// NATS URL is configured.
func newMailer(cfg config.Config) (mail.Sender, error) {
	if cfg.NATSURL != "" {
		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, err
		}
		return mail.NewNATSSender(conn, mail.DefaultSubject), nil
	}
	return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom), nil
}
