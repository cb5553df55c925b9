package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/contraptionco/trivet/accounts"
	fakeaccountrepo "github.com/contraptionco/trivet/accounts/repofake"
	pgaccountrepo "github.com/contraptionco/trivet/accounts/repopostgres"
	"github.com/contraptionco/trivet/auth"
	"github.com/contraptionco/trivet/internal/config"
	"github.com/contraptionco/trivet/logins"
	fakeloginrepo "github.com/contraptionco/trivet/logins/repofake"
	pgloginrepo "github.com/contraptionco/trivet/logins/repopostgres"
	"github.com/contraptionco/trivet/metrics"
	"github.com/contraptionco/trivet/migrations"
	"github.com/contraptionco/trivet/newsletter"
	"github.com/contraptionco/trivet/server"
	"github.com/contraptionco/trivet/token"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	codec, err := token.NewCodec(c.GetSessionSecret(), c.GetStateExpiry(), c.GetSessionExpiry())
	if err != nil {
		return fmt.Errorf("token.NewCodec: %w", err)
	}

	repos, cleanup, err := buildRepos(context.Background(), c)
	if err != nil {
		return fmt.Errorf("buildRepos: %w", err)
	}
	defer cleanup()

	m := metrics.New()

	authService, err := auth.NewService(repos, codec, c,
		auth.WithSubscriber(newsletter.NewSubscriber(c.GetNewsletterURL())),
		auth.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	handler, err := server.New(c, repos, authService)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildRepos selects the datastore: postgres when DATABASE_URL is set,
// in-memory stores otherwise (local development).
func buildRepos(ctx context.Context, c config.Config) (auth.Repos, func(), error) {
	dsn := c.GetDatabaseURL()
	if dsn == "" {
		log.Printf("DATABASE_URL not set, using in-memory stores\n")
		return auth.Repos{
			Accounts: fakeaccountrepo.NewFakeAccountRepo(),
			Logins:   fakeloginrepo.NewFakeLoginRepo(),
		}, func() {}, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return auth.Repos{}, nil, fmt.Errorf("sql.Open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return auth.Repos{}, nil, fmt.Errorf("db.PingContext: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return auth.Repos{}, nil, fmt.Errorf("runMigrations: %w", err)
	}

	var accountRepo accounts.Repo = pgaccountrepo.NewPostgresRepo(db)
	var loginRepo logins.Repo = pgloginrepo.NewPostgresRepo(db)
	return auth.Repos{Accounts: accountRepo, Logins: loginRepo}, func() { db.Close() }, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
