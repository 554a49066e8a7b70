package model

import "time"

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
)

// FriendRequest is a directed proposal from sender to receiver. The
// composite unique index covers (sender, receiver, status): at most one
// pending row may exist per direction, and a losing concurrent insert
// surfaces as a duplicate-key error rather than a second pending row.
// Accepting is the only transition; there is no decline or cancel.
type FriendRequest struct {
	UUIDBase
	SenderID   uint    `gorm:"uniqueIndex:idx_request_direction;not null" json:"senderId"`
	Sender     Student `gorm:"foreignKey:SenderID;references:ID;constraint:false" json:"sender,omitempty"`
	ReceiverID uint    `gorm:"uniqueIndex:idx_request_direction;not null" json:"receiverId"`
	Receiver   Student `gorm:"foreignKey:ReceiverID;references:ID;constraint:false" json:"receiver,omitempty"`
	Status     string  `gorm:"size:16;uniqueIndex:idx_request_direction;default:'pending'" json:"status"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is one directed half of a symmetric friend edge. Edges are
// always written as the (A,B)/(B,A) pair in a single transaction so a
// one-sided row is never observable.
type Friendship struct {
	StudentID uint      `gorm:"primaryKey" json:"studentId"`
	FriendID  uint      `gorm:"primaryKey" json:"friendId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Friendship) TableName() string {
	return "friendships"
}
