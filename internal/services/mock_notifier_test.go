package services

import (
	"github.com/stretchr/testify/mock"
	"github.com/yukikurage/civicconnect-api/internal/models"
)

type mockNotifier struct {
	mock.Mock
}

func newMockNotifier() *mockNotifier {
	n := &mockNotifier{}
	n.On("ComplaintCreated", mock.AnythingOfType("models.Complaint")).Return().Maybe()
	n.On("ComplaintUpdated", mock.AnythingOfType("models.Complaint")).Return().Maybe()
	n.On("ComplaintResolved", mock.AnythingOfType("models.Complaint")).Return().Maybe()
	n.On("VolunteerCreated", mock.AnythingOfType("models.VolunteerOpportunity")).Return().Maybe()
	return n
}

func (m *mockNotifier) ComplaintCreated(complaint models.Complaint) {
	m.Called(complaint)
}

func (m *mockNotifier) ComplaintUpdated(complaint models.Complaint) {
	m.Called(complaint)
}

func (m *mockNotifier) ComplaintResolved(complaint models.Complaint) {
	m.Called(complaint)
}

func (m *mockNotifier) VolunteerCreated(opportunity models.VolunteerOpportunity) {
	m.Called(opportunity)
}
