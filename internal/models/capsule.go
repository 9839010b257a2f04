package models

import "time"

// Capsule is a message that its receiver can only open once UnlockAt has passed
type Capsule struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	Content    string    `json:"content" db:"content"`
	MediaURL   string    `json:"mediaUrl" db:"media_url"`
	UnlockAt   time.Time `json:"unlockAt" db:"unlock_at"`
	IsOpened   bool      `json:"isOpened" db:"is_opened"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// IsLocked reports whether the capsule cannot be opened at now
func (c *Capsule) IsLocked(now time.Time) bool {
	return now.Before(c.UnlockAt)
}

// CapsuleView is a capsule as returned to a client. Locked capsules in the
// receiver's box have their content withheld.
type CapsuleView struct {
	Capsule
	Locked bool `json:"locked"`
}

// ViewFor returns the capsule as viewerID may see it at now
func (c Capsule) ViewFor(viewerID string, now time.Time) CapsuleView {
	view := CapsuleView{Capsule: c, Locked: c.IsLocked(now)}
	if view.Locked && viewerID == c.ReceiverID {
		view.Content = ""
		view.MediaURL = ""
	}
	return view
}
