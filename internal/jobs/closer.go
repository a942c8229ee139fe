// Package jobs runs scheduled maintenance for the job catalog.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
)

// StartDeadlineCloser schedules an hourly sweep closing published jobs
// whose deadline has passed. The returned cron can be stopped on shutdown.
func StartDeadlineCloser(db *database.DBinstanceStruct) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		closed, err := CloseExpired(db)
		if err != nil {
			logrus.WithError(err).Warn("deadline sweep failed")
			return
		}
		if closed > 0 {
			logrus.WithField("closed", closed).Info("closed expired job postings")
		}
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to schedule deadline sweep")
	}
	c.Start()
	return c
}

// CloseExpired marks published jobs past their deadline as CLOSED and
// returns how many were affected.
func CloseExpired(db *database.DBinstanceStruct) (int64, error) {
	res := db.Model(&model.Job{}).
		Where("status = ? AND deadline IS NOT NULL AND deadline < ?", model.JobPublished, time.Now()).
		Update("status", model.JobClosed)
	return res.RowsAffected, res.Error
}
