package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"Lintel/internal/auth"
	"Lintel/internal/calc/batch"
	"Lintel/internal/calc/beamcheck"
	"Lintel/internal/calc/importer"
	"Lintel/internal/catalog"
	"Lintel/internal/logger"
	"Lintel/internal/project"
	"Lintel/internal/repo"
	"Lintel/internal/report"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

func HandleList(mux *mux.Router, db *sql.DB, log *zap.Logger) {
	store := repo.NewPostgresDB(db)

	tokenKey := os.Getenv("TOKEN_KEY")
	if tokenKey == "" {
		log.Fatal("TOKEN_KEY environment variable is not set")
	}

	authEnv := &auth.Authenv{JWTkey: []byte(tokenKey), Repo: store, Log: log}

	limiter := auth.NewIPRateLimiter(1, 3)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	projectH := &project.Handler{Repo: store, Log: log}
	secureApi.HandleFunc("/projects", projectH.ListProjects).Methods("GET")
	secureApi.HandleFunc("/projects", projectH.CreateProject).Methods("POST")
	secureApi.HandleFunc("/projects/{id:[0-9]+}", projectH.GetProject).Methods("GET")
	secureApi.HandleFunc("/projects/{id:[0-9]+}", projectH.UpdateProject).Methods("PATCH", "PUT")
	secureApi.HandleFunc("/projects/{id:[0-9]+}", projectH.DeleteProject).Methods("DELETE")
	secureApi.HandleFunc("/projects/{id:[0-9]+}/beams", projectH.ListBeams).Methods("GET")
	secureApi.HandleFunc("/projects/{id:[0-9]+}/beams", projectH.CreateBeam).Methods("POST")
	secureApi.HandleFunc("/beams/{id:[0-9]+}", projectH.GetBeam).Methods("GET")
	secureApi.HandleFunc("/beams/{id:[0-9]+}", projectH.UpdateBeam).Methods("PATCH", "PUT")
	secureApi.HandleFunc("/beams/{id:[0-9]+}", projectH.DeleteBeam).Methods("DELETE")
	secureApi.HandleFunc("/beams/{id:[0-9]+}/calc", projectH.CalcBeam).Methods("POST")
	secureApi.HandleFunc("/beams/{id:[0-9]+}/calc", projectH.LatestCalc).Methods("GET")

	catalogH := &catalog.Handler{Store: store, Log: log}
	secureApi.HandleFunc("/products", catalogH.List).Methods("GET")
	secureApi.HandleFunc("/products/import", catalogH.Import).Methods("POST")

	beamcheckH := &beamcheck.Handler{Products: store, Log: log}
	batchH := &batch.Handler{Products: store, Log: log}
	importerH := &importer.Handler{Products: store, Log: log}
	reportH := &report.Handler{}

	secureApi.HandleFunc("/tools/beamcheck/calc", beamcheckH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/beamcheck/candidates", batchH.Check).Methods("POST")
	secureApi.HandleFunc("/tools/beamcheck/batch", batchH.Many).Methods("POST")
	secureApi.HandleFunc("/tools/beamcheck/import", importerH.Beams).Methods("POST")
	secureApi.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// .env is optional outside development.
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db := auth.InitDB(log)
	defer db.Close()

	router := mux.NewRouter()
	HandleList(router, db, log)
	handler := CORS(router)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8443"
	}
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	log.Info("starting server", zap.String("addr", addr))

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS("server.crt", "server.key"); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown", zap.Error(err))
	}
	log.Info("server stopped")

	wg.Wait()
}
