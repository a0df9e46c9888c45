package boot

import (
	"eventuate/src/db"
	"eventuate/src/lib"
	"eventuate/src/models"
	"eventuate/src/utils"
	"log"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Booking{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched := lib.GetScheduler()
	if sched == nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jobs := []struct {
		cron string
		task func()
		name string
	}{
		// Every 15 minutes: force-confirm bookings stuck in pending.
		{"*/15 * * * *", utils.ConfirmPendingBookings, "ConfirmPendingBookings"},
		// Hourly: published events whose start time has passed become completed.
		{"0 * * * *", utils.CompletePastEvents, "CompletePastEvents"},
		// Every 5 minutes: fold redis view counters into the events table.
		{"*/5 * * * *", utils.FlushViewCounters, "FlushViewCounters"},
	}
	for _, j := range jobs {
		id, err := lib.CreateCronJob(j.cron, j.task, j.name)
		if err != nil {
			log.Printf("Error running job %s: %s\n", j.name, err.Error())
			continue
		}
		log.Printf("Job ID: %s %s\n", j.name, *id)
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched := lib.GetScheduler()
	if sched == nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}
