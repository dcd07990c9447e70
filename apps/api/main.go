package main

import (
	"log"
	"os"

	echoapi "github.com/LithiumValproate/Freshman-3rd/apps/api/echo"
	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/auth"
	"github.com/LithiumValproate/Freshman-3rd/core/session"
	"github.com/LithiumValproate/Freshman-3rd/core/student"
	logsvc "github.com/LithiumValproate/Freshman-3rd/services/logger"
	"github.com/LithiumValproate/Freshman-3rd/storage"
	"github.com/LithiumValproate/Freshman-3rd/storage/boltkv"
	"github.com/LithiumValproate/Freshman-3rd/storage/database"
	inmemdb "github.com/LithiumValproate/Freshman-3rd/storage/database/inmem"
	"github.com/LithiumValproate/Freshman-3rd/storage/database/sqlxrepos"
	"github.com/LithiumValproate/Freshman-3rd/storage/inmemkv"
	"github.com/LithiumValproate/Freshman-3rd/storage/redikv"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(std, err)

	var logger core.Logger
	if conf.Debug || conf.TestMode {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// persistent record store: local bbolt file, or redis when configured
	var store storage.KV
	if conf.Redis.Addr != "" {
		store, err = redikv.Open(conf)
	} else {
		store, err = boltkv.Open(conf)
	}
	errAndDie(std, err)
	defer store.Close()

	// transient current-user marker store; dies with the process
	cache := inmemkv.Open()

	// student records collaborator; falls back to the in-memory repository
	// when no database is reachable
	var stuRepo student.Repository
	if db, err := database.Open(conf); err == nil && database.Ping(db) == nil {
		stuRepo = sqlxrepos.NewStudentRepository(db)
		defer db.Close()
	} else {
		logger.Warn("database unreachable, using in-memory student repository")
		stuRepo = inmemdb.NewStudentRepository()
	}

	validate, translator := core.NewValidator()

	app, err := echoapi.NewServer(&echoapi.Options{
		Addr:       conf.Server.Address(),
		Conf:       conf,
		Logger:     logger,
		Acceptor:   auth.NewAcceptor(conf),
		SessionSvc: session.NewService(conf, store, cache, logger),
		StudentSvc: student.NewService(stuRepo),
		Validate:   validate,
		Translator: translator,
	})
	errAndDie(std, err)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
