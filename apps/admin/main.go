package main

import (
	"log"
	"os"

	"github.com/TNSHR/teacher-rating-backend/core"
	"github.com/TNSHR/teacher-rating-backend/core/rating"
	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
	"github.com/TNSHR/teacher-rating-backend/core/user"
	"github.com/TNSHR/teacher-rating-backend/storage/database"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(db.Ping())

	stdSvc := student.NewService(database.NewStudentRepository(db))
	tchSvc := teacher.NewService(database.NewTeacherRepository(db))

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(database.NewUserRepository(db), conf),
		stdSvc: stdSvc,
		tchSvc: tchSvc,
		ratSvc: rating.NewService(database.NewRatingRepository(db), stdSvc, tchSvc),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
