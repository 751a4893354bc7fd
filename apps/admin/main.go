package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/ntic/scicon/core"
	"github.com/ntic/scicon/core/submission"
	appfs "github.com/ntic/scicon/fs"
	emailsvc "github.com/ntic/scicon/services/email"
	logsvc "github.com/ntic/scicon/services/logger"
	"github.com/ntic/scicon/storage/database"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	defer logger.Close()

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// set up the submissions store
	store := submission.NewStore(
		database.NewBlobRepository(db, conf),
		submission.WithStorageKey(conf.Storage.Key),
		submission.WithLogger(logger),
	)
	mailSvc := emailsvc.NewService(conf, logger, log.New(os.Stdout, "", 0))
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	submission.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		db:         db,
		engine:     conf.Database.Engine,
		svc:        submission.NewService(store, mailSvc, conf, logger),
		validate:   validate,
		translator: translator,
		in:         os.Stdin,
		out:        os.Stdout,
	}
	err = cli.run(os.Args)

	_ = store.Close()
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}
