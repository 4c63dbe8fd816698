package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/GabrielASF2/blue-lead-manager/internal/config"
	"github.com/GabrielASF2/blue-lead-manager/internal/entity"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/database"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/http/handlers"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/http/middleware"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/integration/supabase"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/mail"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/memory"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/queue"
	"github.com/GabrielASF2/blue-lead-manager/internal/infra/worker"
	"github.com/GabrielASF2/blue-lead-manager/internal/usecase"
)

// sessionProvider é o provedor que também aceita eventos externos (fila).
type sessionProvider interface {
	entity.SessionProvider
	queue.SessionEventSink
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Banco (opcional)
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.NewDBConnection(cfg.DBDriver, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Falha ao conectar no banco: %v", err)
		}
		defer db.Close()
	}

	// 2. Autenticação e persistência
	sbClient := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseJWTSecret)

	var provider sessionProvider
	if cfg.SupabaseEnabled() {
		provider = supabase.NewAuthClient(sbClient)
	} else {
		log.Println("⚠️ SUPABASE_URL não configurado: usando login de demonstração")
		provider = memory.NewSessionProvider(cfg.DemoSessionTTL)
	}

	// O controller ainda não existe quando a factory é montada; o token é lido a cada chamada.
	var controller *usecase.AuthSessionController
	accessToken := func() string {
		if sess, ok := controller.Session(); ok {
			return sess.AccessToken
		}
		return ""
	}

	var repos usecase.LeadRepositoryFactory
	var leadBackend string
	switch {
	case db != nil:
		leadBackend = "postgres"
		pgRepo := database.NewLeadRepository(db)
		repos = func(entity.Session) entity.LeadRepositoryInterface { return pgRepo }
	case cfg.SupabaseEnabled():
		leadBackend = "supabase"
		sbRepo := supabase.NewLeadRepository(sbClient, accessToken)
		repos = func(entity.Session) entity.LeadRepositoryInterface { return sbRepo }
	default:
		leadBackend = "memory"
		memRepo := memory.NewLeadRepository(memory.DemoLeads()...)
		repos = func(entity.Session) entity.LeadRepositoryInterface { return memRepo }
	}
	log.Printf("📦 Leads persistidos em: %s", leadBackend)

	// 3. Fila (opcional)
	var (
		rabbitConn *amqp091.Connection
		publisher  usecase.LeadEventPublisher
		rabbitMQ   *queue.RabbitMQ
	)
	if cfg.RabbitMQURL != "" {
		var err error
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		publisher = queue.NewProducer(rabbitMQ.Ch)
	}

	// 4. Email (opcional)
	var notifier usecase.LeadNotifier
	if cfg.MailHost != "" {
		notifier = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	}

	// 5. UseCases
	links := usecase.NewContactLinks(cfg.DefaultCountryCode, cfg.WhatsAppWebHost)
	controller = usecase.NewAuthSessionController(usecase.AuthSessionDeps{
		Provider:  provider,
		Repos:     repos,
		Links:     links,
		Publisher: publisher,
		Timeout:   cfg.RequestTimeout,
	})
	defer controller.Close()

	unsubscribe := controller.Subscribe(func(state usecase.AuthState) {
		log.Printf("🔐 Estado da sessão: %s", state)
	})
	defer unsubscribe()

	createLeadUC := usecase.NewCreateLeadUseCase(publisher, notifier, cfg.RequestTimeout)

	// 6. Workers
	expiryWorker := worker.NewSessionExpiryWorker(controller, cfg.SessionCheckInterval, func() {
		middleware.RecordAuthEvent("expired")
	})
	go expiryWorker.Start(ctx)

	if rabbitMQ != nil {
		sessionWorker := queue.NewWorker(rabbitMQ.Ch, provider)
		go func() {
			if err := sessionWorker.Start(ctx, queue.SessionQueueName); err != nil {
				log.Printf("❌ %v", err)
			}
		}()
	}

	// 7. Handlers
	authHandler := handlers.NewAuthHandler(controller)
	leadHandler := handlers.NewLeadHandler(createLeadUC)
	editorHandler := handlers.NewEditorHandler()
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, cfg.SupabaseURL, leadBackend)
	loginLimiter := handlers.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
	defer loginLimiter.Stop()

	// 8. Router
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Get("/session", authHandler.HandleSession)
		r.Post("/login", loginLimiter.Limit(authHandler.HandleLogin))
		r.Post("/signup", loginLimiter.Limit(authHandler.HandleSignup))
		r.Post("/logout", authHandler.HandleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(handlers.RequireSession(controller))

		r.Get("/leads", leadHandler.HandleList)
		r.Post("/leads", leadHandler.HandleCreate)
		r.Post("/leads/reload", leadHandler.HandleReload)
		r.Get("/leads/{id}", leadHandler.HandleGet)
		r.Post("/leads/{id}/edit", editorHandler.HandleBegin)

		r.Get("/editor", editorHandler.HandleGet)
		r.Patch("/editor", editorHandler.HandleUpdate)
		r.Delete("/editor", editorHandler.HandleCancel)
		r.Post("/editor/save", editorHandler.HandleSave)
		r.Get("/editor/whatsapp", editorHandler.HandleWhatsApp)
		r.Get("/editor/email", editorHandler.HandleEmail)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("🔥 Blue Lead Manager rodando na porta %s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("❌ %v", err)
	}
}
