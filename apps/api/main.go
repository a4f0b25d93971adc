package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	echoapi "github.com/uniquest/uniquest/apps/api/echo"
	"github.com/uniquest/uniquest/core"
	"github.com/uniquest/uniquest/core/dashboard"
	"github.com/uniquest/uniquest/core/room"
	"github.com/uniquest/uniquest/core/submission"
	"github.com/uniquest/uniquest/core/task"
	"github.com/uniquest/uniquest/core/user"
	emailsvc "github.com/uniquest/uniquest/services/email"
	"github.com/uniquest/uniquest/services/filestore"
	logsvc "github.com/uniquest/uniquest/services/logger"
	"github.com/uniquest/uniquest/storage/database"
	sqlxrepos "github.com/uniquest/uniquest/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()
	sdb := sqlx.NewDb(db, conf.Database.Engine)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	files, err := filestore.NewLocalStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file store: %v", err), err)
	}

	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(sdb), mailSvc)
	roomSvc := room.NewService(sqlxrepos.NewRoomRepository(sdb))
	taskSvc := task.NewService(sqlxrepos.NewTaskRepository(sdb), roomSvc)
	subSvc := submission.NewService(sqlxrepos.NewSubmissionRepository(sdb), files, taskSvc, roomSvc)
	dashSvc := dashboard.NewService(usrSvc, roomSvc, taskSvc, subSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.RegisterValidators(validate, translator)
	task.RegisterValidators(validate, translator)

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			UserSvc:    usrSvc,
			RoomSvc:    roomSvc,
			TaskSvc:    taskSvc,
			SubSvc:     subSvc,
			DashSvc:    dashSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
