package boot

import (
	"log"
	"time"

	"rbs/src/db"
	"rbs/src/lib"
	"rbs/src/models"
	"rbs/src/services"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomSlot{},
		&models.Booking{},
		&models.FAQ{},
		&models.Page{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// InitScheduler registers the periodic maintenance jobs and starts the
// scheduler. Every job recomputes from stored timestamps, so a missed
// or late run is harmless.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}

	maintenance := services.NewMaintenanceService(db.GetDb())

	if _, err := lib.CreateCronJob(func() {
		if _, err := maintenance.RunStatusSweep(time.Now()); err != nil {
			log.Printf("Error running status sweep: %s\n", err.Error())
		}
	}, time.Minute); err != nil {
		log.Printf("Error scheduling status sweep: %s\n", err.Error())
	}

	if _, err := lib.CreateDailyJob(func() {
		maintenance.ResetCancellationCounters(time.Now())
	}, 3, 0); err != nil {
		log.Printf("Error scheduling cancellation reset: %s\n", err.Error())
	}

	if _, err := lib.CreateDailyJob(func() {
		maintenance.PurgeNotifications(time.Now())
	}, 3, 30); err != nil {
		log.Printf("Error scheduling notification purge: %s\n", err.Error())
	}

	if _, err := lib.CreateCronJob(func() {
		maintenance.LogHealth()
	}, 5*time.Minute); err != nil {
		log.Printf("Error scheduling health log: %s\n", err.Error())
	}

	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
