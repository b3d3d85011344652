package service

import (
	"fmt"

	"github.com/registreqc/registreqc-backend/internal/app/model"
	"github.com/registreqc/registreqc-backend/internal/app/repository"
	"github.com/registreqc/registreqc-backend/internal/websocket"
	"github.com/registreqc/registreqc-backend/pkg/logger"
)

// NotificationService records moderation decisions for their subjects and
// pushes live events to connected admin dashboards. Notification failures are
// logged, never propagated: a missed notification must not undo a decision.
type NotificationService interface {
	NotifyClaimReviewed(claim *model.Claim, approved bool, reason string)
	NotifyBusinessModerated(business *model.Business, status model.BusinessStatus, reason string)
	NotifyClaimSubmitted(claim *model.Claim)
	ListForUser(userID uint, unreadOnly bool) ([]model.Notification, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	hub              *websocket.Hub
}

func NewNotificationService(notificationRepo repository.NotificationRepository, hub *websocket.Hub) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

func (s *notificationService) NotifyClaimReviewed(claim *model.Claim, approved bool, reason string) {
	notifType := model.NotificationTypeClaimApproved
	title := "Réclamation approuvée"
	content := "Votre réclamation a été approuvée. Vous pouvez maintenant gérer cette fiche."
	if !approved {
		notifType = model.NotificationTypeClaimRejected
		title = "Réclamation refusée"
		content = "Votre réclamation a été refusée."
		if reason != "" {
			content = fmt.Sprintf("Votre réclamation a été refusée : %s", reason)
		}
	}

	notification := &model.Notification{
		UserID:            claim.UserID,
		Type:              notifType,
		Title:             title,
		Content:           content,
		Link:              fmt.Sprintf("/entreprises/%d", claim.BusinessID),
		RelatedBusinessID: &claim.BusinessID,
		RelatedClaimID:    &claim.ID,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Error("Failed to create claim notification", err, map[string]interface{}{
			"claim_id": claim.ID,
		})
	}

	s.broadcast(websocket.Event{
		Type: "claim_reviewed",
		Payload: map[string]interface{}{
			"claim_id":    claim.ID,
			"business_id": claim.BusinessID,
			"approved":    approved,
		},
	})
}

func (s *notificationService) NotifyBusinessModerated(business *model.Business, status model.BusinessStatus, reason string) {
	if business.OwnerID == nil {
		return
	}

	notifType := model.NotificationTypeBusinessApproved
	title := "Fiche publiée"
	content := fmt.Sprintf("La fiche « %s » est maintenant visible dans le répertoire.", business.Name)
	if status == model.BusinessStatusRejected {
		notifType = model.NotificationTypeBusinessRejected
		title = "Fiche refusée"
		content = fmt.Sprintf("La fiche « %s » a été refusée.", business.Name)
		if reason != "" {
			content += " Motif : " + reason
		}
	}

	link := "/entreprises"
	if business.Slug != nil {
		link = "/entreprises/" + *business.Slug
	}

	notification := &model.Notification{
		UserID:            *business.OwnerID,
		Type:              notifType,
		Title:             title,
		Content:           content,
		Link:              link,
		RelatedBusinessID: &business.ID,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Error("Failed to create moderation notification", err, map[string]interface{}{
			"business_id": business.ID,
		})
	}

	s.broadcast(websocket.Event{
		Type: "business_moderated",
		Payload: map[string]interface{}{
			"business_id": business.ID,
			"status":      status,
		},
	})
}

// NotifyClaimSubmitted only feeds the admin dashboard; the claimant already
// knows they filed.
func (s *notificationService) NotifyClaimSubmitted(claim *model.Claim) {
	s.broadcast(websocket.Event{
		Type: "claim_submitted",
		Payload: map[string]interface{}{
			"claim_id":    claim.ID,
			"business_id": claim.BusinessID,
			"method":      claim.Method,
		},
	})
}

func (s *notificationService) ListForUser(userID uint, unreadOnly bool) ([]model.Notification, error) {
	return s.notificationRepo.ListByUser(userID, unreadOnly)
}

func (s *notificationService) MarkRead(id, userID uint) error {
	return s.notificationRepo.MarkRead(id, userID)
}

func (s *notificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

func (s *notificationService) broadcast(event websocket.Event) {
	if s.hub != nil {
		s.hub.Broadcast(event)
	}
}
