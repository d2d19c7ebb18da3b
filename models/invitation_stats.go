package models

import "time"

// InvitationStats global davetiye kotası (tek kayıt, id=1).
// Yalnızca kilitli okuma (SELECT ... FOR UPDATE) altında değiştirilir.
// Değişmez: RemainingInvitations = max(Allocated - Generated, 0).
type InvitationStats struct {
	ID                    uint      `gorm:"primarykey" json:"id"`
	AllocatedInvitations  int       `gorm:"default:0" json:"allocated_invitations"`
	GeneratedInvitations  int       `gorm:"default:0" json:"generated_invitations"`
	RemainingInvitations  int       `gorm:"default:0" json:"remaining_invitations"`
	RegisteredVisitors    int       `gorm:"default:0" json:"registered_visitors"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// UpdateRemaining kalan kotayı yeniden hesaplar ve sıfırın altına inmesini engeller.
func (s *InvitationStats) UpdateRemaining() {
	remaining := s.AllocatedInvitations - s.GeneratedInvitations
	if remaining < 0 {
		remaining = 0
	}
	s.RemainingInvitations = remaining
}
