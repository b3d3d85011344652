package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/db"
)

func setupNotificationTest(t *testing.T) (NotificationService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	notificationRepo := repository.NewNotificationRepository(testDB)
	return NewNotificationService(notificationRepo, nil), testDB
}

func TestNotificationService_NotifyClaimReviewed(t *testing.T) {
	svc, testDB := setupNotificationTest(t)

	claim := &model.Claim{ID: 3, BusinessID: 12, UserID: 7}

	svc.NotifyClaimReviewed(claim, true, "")
	svc.NotifyClaimReviewed(claim, false, "preuve insuffisante")

	notifications, err := svc.ListForUser(7, false)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	var rejected model.Notification
	require.NoError(t, testDB.Where("type = ?", model.NotificationTypeClaimRejected).First(&rejected).Error)
	assert.Contains(t, rejected.Content, "preuve insuffisante")
	require.NotNil(t, rejected.RelatedClaimID)
	assert.EqualValues(t, 3, *rejected.RelatedClaimID)
}

func TestNotificationService_NotifyBusinessModerated(t *testing.T) {
	svc, _ := setupNotificationTest(t)

	ownerID := uint(7)
	business := &model.Business{
		ID:      12,
		Name:    "Garage Bélanger",
		Slug:    strPtr("garage-belanger"),
		OwnerID: &ownerID,
	}

	svc.NotifyBusinessModerated(business, model.BusinessStatusApproved, "")

	notifications, err := svc.ListForUser(ownerID, true)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeBusinessApproved, notifications[0].Type)
	assert.Equal(t, "/entreprises/garage-belanger", notifications[0].Link)

	// A listing without an owner notifies no one.
	svc.NotifyBusinessModerated(&model.Business{ID: 13, Name: "Orpheline"}, model.BusinessStatusApproved, "")

	all, err := svc.ListForUser(ownerID, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, _ := setupNotificationTest(t)

	ownerID := uint(7)
	business := &model.Business{ID: 12, Name: "Garage", Slug: strPtr("garage"), OwnerID: &ownerID}
	svc.NotifyBusinessModerated(business, model.BusinessStatusApproved, "")
	svc.NotifyBusinessModerated(business, model.BusinessStatusRejected, "doublon")

	unread, err := svc.ListForUser(ownerID, true)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	require.NoError(t, svc.MarkRead(unread[0].ID, ownerID))

	unread, err = svc.ListForUser(ownerID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	// Another user's call is scoped away and changes nothing.
	require.NoError(t, svc.MarkRead(unread[0].ID, 99))
	unread, err = svc.ListForUser(ownerID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, svc.MarkAllRead(ownerID))
	unread, err = svc.ListForUser(ownerID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}
