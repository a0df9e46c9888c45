package lib

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var scheduler gocron.Scheduler

func GetScheduler() gocron.Scheduler {
	if scheduler != nil {
		return scheduler
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Could not create scheduler: %s\n", err.Error())
		return nil
	}
	scheduler = sched
	return sched
}

// NewScheduler Replace scheduler instance with custom implementation
func NewScheduler(s gocron.Scheduler) gocron.Scheduler {
	scheduler = s
	return scheduler
}

func CreateCronJob(cron string, task func(), name string) (*string, error) {
	s := GetScheduler()
	j, err := s.NewJob(
		gocron.CronJob(cron, false),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		log.Printf("Error creating job %s: %s\n", name, err.Error())
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}

func CreateOneTimeCronJob(startAt time.Time, task func(), name string) (*string, error) {
	s := GetScheduler()
	j, err := s.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(startAt)),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		log.Printf("Error creating job %s: %s\n", name, err.Error())
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}
