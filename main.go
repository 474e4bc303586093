package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kwkoo/go-quizlive/internal"
	"github.com/kwkoo/go-quizlive/internal/api"
	"github.com/kwkoo/go-quizlive/internal/config"
	"github.com/kwkoo/go-quizlive/internal/shutdown"
)

func main() {
	cfg := config.Load()
	shutdown.InitShutdownHandler()

	hub := internal.NewHub(cfg)
	go hub.RunReaper()

	restapi := api.InitRestApi(hub)

	router := mux.NewRouter()
	router.HandleFunc("/api/health", restapi.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/quiz", restapi.UploadQuiz).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions", restapi.CreateSession).Methods(http.MethodPost)
	router.HandleFunc("/api/sessions/{join_code}", restapi.GetSession).Methods(http.MethodGet)
	router.HandleFunc("/ws/host/{join_code}", hub.ServeHostWS)
	router.HandleFunc("/ws/player/{join_code}", hub.ServePlayerWS)
	if cfg.StaticDir != "" {
		log.Printf("serving static files from %s", cfg.StaticDir)
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: api.CORS(router),
	}

	go func() {
		<-shutdown.GetShutdownChan()
		log.Print("shutting down web server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
		shutdown.NotifyShutdownComplete()
	}()

	log.Printf("listening on port %d", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("web server error: %v", err)
	}

	shutdown.WaitForShutdown()
	log.Print("shutdown complete")
}
