package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talentos.org/internal/auth"
	"talentos.org/internal/consent"
	"talentos.org/internal/dashboard"
	"talentos.org/internal/fieldcrypt"
	"talentos.org/internal/httpapi"
	"talentos.org/internal/obs"
	"talentos.org/internal/ops"
	"talentos.org/internal/persona"
	"talentos.org/internal/revenue"
	"talentos.org/internal/store/pg"
	"talentos.org/internal/talent"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	dev := os.Getenv("TALENTOS_DEV") == "1"

	jwtSecret := os.Getenv("TALENTOS_JWT_SECRET")
	if jwtSecret == "" {
		if !dev {
			log.Fatal("TALENTOS_JWT_SECRET is required (set TALENTOS_DEV=1 for a local default)")
		}
		jwtSecret = "dev-only-jwt-secret"
	}
	encSecret := os.Getenv("TALENTOS_ENCRYPTION_KEY")
	if encSecret == "" {
		if !dev {
			log.Fatal("TALENTOS_ENCRYPTION_KEY is required (set TALENTOS_DEV=1 for a local default)")
		}
		encSecret = "dev-only-encryption-key"
	}

	tokens, err := auth.NewTokenService(jwtSecret)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}
	cipher, err := fieldcrypt.New(fieldcrypt.KeyFromSecret(encSecret))
	if err != nil {
		log.Fatalf("field cipher: %v", err)
	}

	var (
		db *sql.DB

		userStore    auth.Store
		talentStore  talent.Store
		onboarding   talent.OnboardingStore
		purger       talent.PersonaPurger
		personaStore persona.Store
		directory    persona.TalentDirectory
		consentStore consent.Store
		flagger      consent.ContentFlagger
		revenueStore revenue.Store
		incidents    ops.IncidentStore
		wellbeing    ops.WellbeingStore
		tasks        ops.TaskStore

		talentCounts  dashboard.TalentCounts
		personaCounts dashboard.PersonaCounts
		opsCounts     dashboard.OpsCounts
		revenueSums   dashboard.RevenueSums
	)

	if dsn := os.Getenv("TALENTOS_PG_DSN"); dsn != "" {
		store, err := pg.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer store.Close()
		db = store.DB()

		userStore = store
		talentStore, onboarding = store, store
		purger, personaStore, directory = store, store, store
		consentStore, flagger = store, store
		revenueStore = store
		incidents, wellbeing, tasks = store, store, store
		talentCounts, personaCounts, opsCounts, revenueSums = store, store, store, store
		log.Printf("storage: postgresql")
	} else {
		if !dev {
			log.Fatal("TALENTOS_PG_DSN is required (set TALENTOS_DEV=1 for in-memory storage)")
		}
		users := auth.NewInMemoryStore()
		talents := talent.NewInMemory()
		personas := persona.NewInMemory()
		consents := consent.NewInMemory()
		entries := revenue.NewInMemory()
		opsData := ops.NewInMemory()

		userStore = users
		talentStore, onboarding = talents, talents
		purger, personaStore, directory = personas, personas, talents
		consentStore, flagger = consents, consents
		revenueStore = entries
		incidents, wellbeing, tasks = opsData, opsData, opsData
		talentCounts, personaCounts, opsCounts, revenueSums = talents, personas, opsData, entries
		log.Printf("storage: in-memory (data is lost on restart)")
	}

	authSvc, err := auth.NewService(userStore, tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	talentSvc, err := talent.NewService(talentStore, onboarding, purger, cipher)
	if err != nil {
		log.Fatalf("talent service: %v", err)
	}
	personaSvc, err := persona.NewService(personaStore, directory)
	if err != nil {
		log.Fatalf("persona service: %v", err)
	}
	consentSvc, err := consent.NewService(consentStore, flagger)
	if err != nil {
		log.Fatalf("consent service: %v", err)
	}
	revenueSvc, err := revenue.NewService(revenueStore)
	if err != nil {
		log.Fatalf("revenue service: %v", err)
	}
	opsSvc, err := ops.NewService(incidents, wellbeing, tasks)
	if err != nil {
		log.Fatalf("ops service: %v", err)
	}
	dashboardSvc := dashboard.NewService(talentCounts, personaCounts, opsCounts, revenueSums)

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, httpapi.Services{
		Auth:      authSvc,
		Talents:   talentSvc,
		Personas:  personaSvc,
		Consents:  consentSvc,
		Revenue:   revenueSvc,
		Ops:       opsSvc,
		Dashboard: dashboardSvc,
	})

	addr := os.Getenv("TALENTOS_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting talentos-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
