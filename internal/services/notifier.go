package services

import "github.com/yukikurage/civicconnect-api/internal/models"

// Notifier receives domain events after they are persisted.
type Notifier interface {
	ComplaintCreated(complaint models.Complaint)
	ComplaintUpdated(complaint models.Complaint)
	ComplaintResolved(complaint models.Complaint)
	VolunteerCreated(opportunity models.VolunteerOpportunity)
}

type noopNotifier struct{}

func (noopNotifier) ComplaintCreated(models.Complaint)            {}
func (noopNotifier) ComplaintUpdated(models.Complaint)            {}
func (noopNotifier) ComplaintResolved(models.Complaint)           {}
func (noopNotifier) VolunteerCreated(models.VolunteerOpportunity) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
