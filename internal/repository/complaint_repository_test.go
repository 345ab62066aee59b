package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/testutil"
	"gorm.io/gorm"
)

type ComplaintRepositoryTestSuite struct {
	suite.Suite
	db      *gorm.DB
	repo    ComplaintRepository
	creator *models.User
}

func (s *ComplaintRepositoryTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.repo = NewComplaintRepository(s.db)
	s.creator = testutil.CreateUser(s.T(), s.db, models.RoleCitizen)
}

func (s *ComplaintRepositoryTestSuite) newComplaint(title string, category models.ComplaintCategory) *models.Complaint {
	return &models.Complaint{
		Title:       title,
		Description: "A description that is comfortably longer than twenty characters.",
		Category:    category,
		Location:    models.Location{Lat: 10, Lng: 20, Area: "Downtown"},
		Status:      models.StatusSubmitted,
		Priority:    models.PriorityMedium,
		CreatorID:   s.creator.ID,
	}
}

func (s *ComplaintRepositoryTestSuite) TestCreateWithRewardCreditsCreator() {
	complaint := s.newComplaint("Broken street light", models.CategoryElectricity)
	s.Require().NoError(s.repo.CreateWithReward(complaint, 10))
	s.NotZero(complaint.ID)

	var creator models.User
	s.Require().NoError(s.db.First(&creator, s.creator.ID).Error)
	s.Equal(10, creator.Points)
}

func (s *ComplaintRepositoryTestSuite) TestFindByIdempotencyKey() {
	key := "3f1b8c1e-2c55-4c1f-9a55-0b6f0e0f1a11"
	complaint := s.newComplaint("Pothole near school", models.CategoryRoads)
	complaint.IdempotencyKey = &key
	s.Require().NoError(s.repo.CreateWithReward(complaint, 0))

	found, err := s.repo.FindByIdempotencyKey(key)
	s.Require().NoError(err)
	s.Equal(complaint.ID, found.ID)

	_, err = s.repo.FindByIdempotencyKey("missing")
	s.True(errors.Is(err, gorm.ErrRecordNotFound))
}

func (s *ComplaintRepositoryTestSuite) TestToggleUpvoteKeepsCountInSync() {
	complaint := testutil.CreateComplaint(s.T(), s.db, s.creator.ID)
	voters := []*models.User{
		testutil.CreateUser(s.T(), s.db, models.RoleCitizen),
		testutil.CreateUser(s.T(), s.db, models.RoleVolunteer),
		testutil.CreateUser(s.T(), s.db, models.RoleAuthority),
	}

	sequence := []int{0, 1, 0, 2, 1, 0, 0, 2}
	for _, i := range sequence {
		_, count, err := s.repo.ToggleUpvote(complaint.ID, voters[i].ID)
		s.Require().NoError(err)

		reloaded, err := s.repo.FindByID(complaint.ID, "Upvotes")
		s.Require().NoError(err)
		s.Equal(len(reloaded.Upvotes), reloaded.UpvoteCount)
		s.Equal(count, reloaded.UpvoteCount)
	}

	upvoted, count, err := s.repo.ToggleUpvote(complaint.ID, voters[0].ID)
	s.Require().NoError(err)
	s.True(upvoted)
	s.Equal(1, count)
}

func (s *ComplaintRepositoryTestSuite) TestAddUpdateAppendsInOrder() {
	complaint := testutil.CreateComplaint(s.T(), s.db, s.creator.ID)
	base := time.Now()

	for i, msg := range []string{"Inspected", "Crew dispatched", "Fixed"} {
		s.Require().NoError(s.repo.AddUpdate(&models.ComplaintUpdate{
			ComplaintID: complaint.ID,
			Message:     msg,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			UpdatedByID: s.creator.ID,
		}))

		reloaded, err := s.repo.FindByID(complaint.ID, "Updates.UpdatedBy")
		s.Require().NoError(err)
		s.Len(reloaded.Updates, i+1)
		s.Equal(msg, reloaded.Updates[i].Message)
		s.Equal(s.creator.ID, reloaded.Updates[i].UpdatedBy.ID)
	}
}

func (s *ComplaintRepositoryTestSuite) TestListFilters() {
	for _, c := range []struct {
		title    string
		category models.ComplaintCategory
		status   models.ComplaintStatus
	}{
		{"Leaking water main", models.CategoryWater, models.StatusSubmitted},
		{"Garbage dump at park", models.CategoryGarbage, models.StatusResolved},
		{"Water tanker missing", models.CategoryWater, models.StatusInProgress},
	} {
		complaint := s.newComplaint(c.title, c.category)
		complaint.Status = c.status
		s.Require().NoError(s.repo.CreateWithReward(complaint, 0))
	}

	water := models.CategoryWater
	list, total, err := s.repo.List(ComplaintFilter{Category: &water, Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(list, 2)
	s.Equal("Water tanker missing", list[0].Title)

	list, total, err = s.repo.List(ComplaintFilter{Search: "GARBAGE", Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("Garbage dump at park", list[0].Title)

	resolved := models.StatusResolved
	_, total, err = s.repo.List(ComplaintFilter{Status: &resolved})
	s.Require().NoError(err)
	s.EqualValues(1, total)

	list, total, err = s.repo.List(ComplaintFilter{Page: 2, PageSize: 2})
	s.Require().NoError(err)
	s.EqualValues(3, total)
	s.Len(list, 1)
}

func (s *ComplaintRepositoryTestSuite) TestDeleteCascades() {
	complaint := testutil.CreateComplaint(s.T(), s.db, s.creator.ID)
	voter := testutil.CreateUser(s.T(), s.db, models.RoleCitizen)

	_, _, err := s.repo.ToggleUpvote(complaint.ID, voter.ID)
	s.Require().NoError(err)
	s.Require().NoError(s.repo.AddUpdate(&models.ComplaintUpdate{
		ComplaintID: complaint.ID, Message: "Seen", Timestamp: time.Now(), UpdatedByID: voter.ID,
	}))
	s.Require().NoError(s.db.Create(&models.Comment{ComplaintID: complaint.ID, UserID: voter.ID, Text: "+1"}).Error)

	s.Require().NoError(s.repo.Delete(complaint.ID))

	_, err = s.repo.FindByID(complaint.ID)
	s.True(errors.Is(err, gorm.ErrRecordNotFound))

	for _, model := range []interface{}{&models.ComplaintUpvote{}, &models.ComplaintUpdate{}, &models.Comment{}} {
		var count int64
		s.Require().NoError(s.db.Model(model).Where("complaint_id = ?", complaint.ID).Count(&count).Error)
		s.Zero(count)
	}
}

func (s *ComplaintRepositoryTestSuite) TestStats() {
	for _, status := range []models.ComplaintStatus{models.StatusResolved, models.StatusResolved, models.StatusInProgress, models.StatusSubmitted} {
		complaint := s.newComplaint("Stat complaint", models.CategoryRoads)
		complaint.Status = status
		s.Require().NoError(s.repo.CreateWithReward(complaint, 0))
	}

	stats, err := s.repo.Stats()
	s.Require().NoError(err)
	s.EqualValues(4, stats.TotalIssues)
	s.EqualValues(2, stats.ResolvedIssues)
	s.EqualValues(1, stats.InProgressIssues)
	s.Require().Len(stats.CategoryStats, 1)
	s.Equal(models.CategoryRoads, stats.CategoryStats[0].Category)
	s.EqualValues(4, stats.CategoryStats[0].Count)
	s.Len(stats.StatusStats, 3)
}

func (s *ComplaintRepositoryTestSuite) TestListWithinBounds() {
	near := s.newComplaint("Near complaint", models.CategoryOther)
	far := s.newComplaint("Far complaint", models.CategoryOther)
	far.Location.Lat = 40
	s.Require().NoError(s.repo.CreateWithReward(near, 0))
	s.Require().NoError(s.repo.CreateWithReward(far, 0))

	list, err := s.repo.ListWithinBounds(Bounds{MinLat: 9, MaxLat: 11, MinLng: 19, MaxLng: 21}, 50)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(near.ID, list[0].ID)
}

func (s *ComplaintRepositoryTestSuite) TestListSearchMatchesWildcardsLiterally() {
	for _, title := range []string{"Road 50% closed", "Road 500 closed", "Pipe a_b leaking", "Pipe axb leaking"} {
		s.Require().NoError(s.repo.CreateWithReward(s.newComplaint(title, models.CategoryRoads), 0))
	}

	list, total, err := s.repo.List(ComplaintFilter{Search: "50%", Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("Road 50% closed", list[0].Title)

	list, total, err = s.repo.List(ComplaintFilter{Search: "a_b", Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("Pipe a_b leaking", list[0].Title)

	_, total, err = s.repo.List(ComplaintFilter{Search: "wow!", Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.EqualValues(0, total)
}

func TestComplaintRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ComplaintRepositoryTestSuite))
}

func TestComplaintRepository_StoreFailureSurfaces(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewComplaintRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `complaints`").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Stats()
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepository_DeleteRollsBack(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewComplaintRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `complaint_upvotes`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `complaint_updates`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Delete(7)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
