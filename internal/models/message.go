package models

import "time"

// Author identifies a non-anonymous poster. Anonymous messages carry no
// author and never gain one afterwards.
type Author struct {
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoURL,omitempty"`
}

// Message represents a message posted to an owner's board.
type Message struct {
	ID        string     `json:"id"`
	OwnerUID  string     `json:"uid"`
	Message   string     `json:"message"`
	Author    *Author    `json:"author,omitempty"`
	CreatedAt time.Time  `json:"createAt"`
	Reply     *string    `json:"reply,omitempty"`
	ReplyAt   *time.Time `json:"replyAt,omitempty"`
	Deny      *bool      `json:"deny,omitempty"`
}

// Denied reports whether the message is hidden from public views.
func (m Message) Denied() bool {
	return m.Deny != nil && *m.Deny
}

// MessageList is the page envelope returned by the list operation.
type MessageList struct {
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	Content       []Message `json:"content"`
}
