// Package placement applies the side effects of a confirmed placement:
// the student record write, the live ticker broadcast and the
// congratulation email. The write is the single source of truth; broadcast
// and email are observers and never fail or roll back the transition.
package placement

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wonder-codes/Placement-Portal-Project/internal/broadcast"
	"github.com/wonder-codes/Placement-Portal-Project/internal/database"
	"github.com/wonder-codes/Placement-Portal-Project/internal/mailer"
	"github.com/wonder-codes/Placement-Portal-Project/internal/model"
)

// Service holds the capabilities placement effects need.
type Service struct {
	DB          *database.DBinstanceStruct
	Broadcaster broadcast.Broadcaster
	Mailer      mailer.Mailer
}

// NewService wires a placement effects service.
func NewService(db *database.DBinstanceStruct, b broadcast.Broadcaster, m mailer.Mailer) *Service {
	return &Service{DB: db, Broadcaster: b, Mailer: m}
}

// PlaceInTx writes the placement record and the student's in-app
// notification inside the caller's transaction, so they commit or roll
// back together with whatever else the caller is writing (the accepted
// application, typically). It reports false when the student is already
// placed at this job: a replay writes nothing and must not announce again.
// The caller fires AnnouncePlacement after its transaction commits.
func (s *Service) PlaceInTx(tx *gorm.DB, student *model.Student, job *model.Job) (bool, error) {
	if student.PlacementStatus == model.PlacementPlaced &&
		student.PlacedAtID != nil && *student.PlacedAtID == job.ID {
		return false, nil
	}

	// Single-row write keeps status and placedAt consistent; re-running it
	// after a partial failure converges on the same state.
	err := tx.Model(&model.Student{}).
		Where("user_id = ?", student.UserID).
		Updates(map[string]interface{}{
			"placement_status": model.PlacementPlaced,
			"placed_at_id":     job.ID,
		}).Error
	if err != nil {
		return false, err
	}

	student.PlacementStatus = model.PlacementPlaced
	jobID := job.ID
	student.PlacedAtID = &jobID

	notif := model.Notification{
		UserID:  student.UserID,
		Title:   "You are placed!",
		Message: fmt.Sprintf("Congratulations! You have been placed at %s as %s.", job.Company.Name, job.Role),
		Type:    model.NotificationPlacement,
	}
	return true, tx.Create(&notif).Error
}

// AnnouncePlacement fires the best-effort observers: the live ticker event
// and the congratulation email. Failures are logged, never surfaced. Call
// it only after the transaction carrying PlaceInTx has committed.
// The student's User and the job's Company must be loaded.
func (s *Service) AnnouncePlacement(ctx context.Context, student *model.Student, job *model.Job) {
	ev := broadcast.Event{
		StudentName: student.User.Name,
		Department:  student.Department,
		Company:     job.Company.Name,
		Package:     job.Package,
	}
	if err := s.Broadcaster.PlacementUpdate(ctx, ev); err != nil {
		logrus.WithError(err).WithField("student", student.UserID).Warn("placement broadcast failed")
	}

	if student.User.Email != nil {
		email := mailer.Email{
			To:      *student.User.Email,
			Subject: "Congratulations! You are Placed",
			Body: fmt.Sprintf(
				"Dear %s,\nWe are happy to inform you that you have been placed at %s as %s with a package of %v LPA.\n\nBest Regards,\nTPO Team",
				student.User.Name, job.Company.Name, job.Role, job.Package),
		}
		if err := s.Mailer.Enqueue(ctx, email); err != nil {
			logrus.WithError(err).WithField("student", student.UserID).Warn("placement email enqueue failed")
		}
	}
}

// ApplyPlacement marks the student placed by the given job in its own
// transaction, then fires the observers. This is the standalone path used
// by the TPO's manual override; the offer-accept flow calls PlaceInTx
// inside its own application transaction instead.
func (s *Service) ApplyPlacement(ctx context.Context, student *model.Student, job *model.Job) error {
	var placed bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		placed, err = s.PlaceInTx(tx, student, job)
		return err
	})
	if err != nil {
		return err
	}
	if placed {
		s.AnnouncePlacement(ctx, student, job)
	}
	return nil
}
