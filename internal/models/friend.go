package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

// FriendRequest is one user asking another to become friends
type FriendRequest struct {
	ID         string              `json:"id" db:"id"`
	FromUserID string              `json:"fromUserId" db:"from_user_id"`
	ToUserID   string              `json:"toUserId" db:"to_user_id"`
	Status     FriendRequestStatus `json:"status" db:"status"`
	CreatedAt  time.Time           `json:"createdAt" db:"created_at"`
}

// FriendRequestWithSender includes the requesting user's profile
type FriendRequestWithSender struct {
	FriendRequest
	Sender PublicUser `json:"sender"`
}

// Friend is a friend's profile together with the chat the two share
type Friend struct {
	Friend  PublicUser `json:"friend"`
	ChatID  string     `json:"chatId"`
	AddedAt time.Time  `json:"addedAt"`
}
