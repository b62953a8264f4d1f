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

	"hrops.org/internal/audit"
	"hrops.org/internal/chat"
	"hrops.org/internal/hr"
	"hrops.org/internal/httpapi"
	"hrops.org/internal/llm"
	"hrops.org/internal/obs"
	"hrops.org/internal/stream"
	"hrops.org/internal/tools"
)

var version = "0.3.1"

func main() {
	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("HROPS_COMMIT"))

	// Stores: PostgreSQL when a DSN is set, in-memory otherwise. The
	// in-memory mode exists for local development and demos.
	var (
		db        *sql.DB
		hrStore   hr.Store
		auditSt   audit.Store
		convStore chat.ConversationStore
	)
	if dsn := os.Getenv("HROPS_PG_DSN"); dsn != "" {
		var err error
		db, err = hr.Open(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		hrStore = hr.NewPGStore(db)
		auditSt = audit.NewPGStore(db)
		convStore = chat.NewPGStore(db)
	} else {
		log.Print("HROPS_PG_DSN not set, using in-memory stores")
		hrStore = hr.NewMemoryStore()
		auditSt = audit.NewMemoryStore()
		convStore = chat.NewMemoryStore()
	}

	auditRec := audit.NewRecorder(auditSt)
	events := stream.New()

	var documents tools.DocumentStore
	if dir := os.Getenv("HROPS_DOCUMENTS_DIR"); dir != "" {
		documents = tools.DirDocumentStore{Dir: dir}
	}
	registry := tools.New(&tools.Deps{
		Store:     hrStore,
		Audit:     auditRec,
		Events:    events,
		Documents: documents,
	})

	orch := chat.NewOrchestrator(convStore, llm.NewClientFromEnv(), registry, os.Getenv("HROPS_SYSTEM_PROMPT"))

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, orch, hrStore, auditRec, events)

	addr := os.Getenv("HROPS_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// Long enough for a full generation loop to stream out.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting hrops-api %s on %s", version, srv.Addr)

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
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
