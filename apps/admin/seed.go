package main

import (
	"context"

	"github.com/TNSHR/teacher-rating-backend/core/student"
	"github.com/TNSHR/teacher-rating-backend/core/teacher"
)

func (cli *commandLine) addStudent(name string, grade int, code string) error {
	std, err := cli.stdSvc.Create(context.Background(), student.NewStudent{
		Name:  name,
		Grade: grade,
		Code:  code,
	})
	if err != nil {
		return err
	}
	logger.Printf("student %q registered with access code %s", std.Name, std.Code)
	return nil
}

func (cli *commandLine) addTeacher(name, subject string, grade int) error {
	tch, err := cli.tchSvc.Create(context.Background(), teacher.NewTeacher{
		Name:    name,
		Subject: subject,
		Grade:   grade,
	})
	if err != nil {
		return err
	}
	logger.Printf("teacher %q (%s) registered", tch.Name, tch.Subject)
	return nil
}

// seed loads a small demo data set.
func (cli *commandLine) seed() error {
	teachers := []teacher.NewTeacher{
		{Name: "Grace Mwangi", Subject: "Mathematics", Grade: 3},
		{Name: "Peter Otieno", Subject: "English", Grade: 3},
		{Name: "Alice Wanjiru", Subject: "Science", Grade: 4},
	}
	for _, nt := range teachers {
		if err := cli.addTeacher(nt.Name, nt.Subject, nt.Grade); err != nil {
			return err
		}
	}

	students := []student.NewStudent{
		{Name: "John Kamau", Grade: 3},
		{Name: "Mary Achieng", Grade: 3},
		{Name: "David Njoroge", Grade: 4},
	}
	for _, ns := range students {
		if err := cli.addStudent(ns.Name, ns.Grade, ""); err != nil {
			return err
		}
	}
	return nil
}
