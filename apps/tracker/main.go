package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ntic/scicon/core"
	"github.com/ntic/scicon/core/submission"
	appfs "github.com/ntic/scicon/fs"
	emailsvc "github.com/ntic/scicon/services/email"
	logsvc "github.com/ntic/scicon/services/logger"
	"github.com/ntic/scicon/storage/database"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	conf := core.NewConfig()

	// the program owns the terminal: logs go to a file
	logFile, err := tea.LogToFile("tracker.log", "")
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger := logsvc.NewRollbarLogger(log.New(logFile, "TRACKER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	defer logger.Close()

	// set up DB
	if err = database.CreateIfNotExist(conf); err != nil {
		return err
	}
	db, err := database.Open(conf)
	if err != nil {
		return err
	}
	defer db.Close()
	if err = database.Migrate(db, conf.Database.Engine); err != nil {
		return err
	}

	// set up the submissions store
	ctx := context.Background()
	store := submission.NewStore(
		database.NewBlobRepository(db, conf),
		submission.WithStorageKey(conf.Storage.Key),
		submission.WithLogger(logger),
	)
	if _, err = store.Load(ctx); err != nil {
		return err
	}
	defer store.Close()

	mailSvc := emailsvc.NewService(conf, logger, log.New(logFile, "", 0))
	core.ParseEmailTemplates(appfs.FS, conf, logger)
	svc := submission.NewService(store, mailSvc, conf, logger)
	// flush pending receipts before the store closes
	defer svc.Wait()

	_, err = tea.NewProgram(newModel(ctx, svc, conf.FrontendBaseURL), tea.WithAltScreen()).Run()
	return err
}
