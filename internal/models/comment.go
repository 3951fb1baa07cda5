// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the moderation state of a comment. Any state can be
// reached from any other through an explicit moderation action.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusSpam     CommentStatus = "spam"
	CommentStatusTrash    CommentStatus = "trash"
)

// Valid reports whether s is a known moderation state.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam, CommentStatusTrash:
		return true
	}
	return false
}

// CommentAuthor is a snapshot of who wrote the comment, captured once at
// creation time. UserID is nil for guests.
type CommentAuthor struct {
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Website   string     `json:"website,omitempty"`
	IPAddress string     `json:"-"`
	UserAgent string     `json:"-"`
}

// Reaction is a single user's vote on a comment.
type Reaction string

const (
	ReactionNone    Reaction = ""
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Comment belongs to exactly one post and optionally replies to another
// comment of the same post.
type Comment struct {
	ID        uuid.UUID     `json:"id"`
	PostID    uuid.UUID     `json:"post_id"`
	ParentID  *uuid.UUID    `json:"parent_id"`
	Content   string        `json:"content"`
	Author    CommentAuthor `json:"author"`
	Status    CommentStatus `json:"status"`
	Likes     []uuid.UUID   `json:"likes"`
	Dislikes  []uuid.UUID   `json:"dislikes"`
	IsEdited  bool          `json:"is_edited"`
	EditedAt  *time.Time    `json:"edited_at,omitempty"`
	EditedBy  *uuid.UUID    `json:"edited_by,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// ContentHTML is Content rendered from Markdown on read.
	ContentHTML string `json:"content_html,omitempty"`

	// Replies is derived from parent_id lookups, never stored.
	Replies []*Comment `json:"replies,omitempty"`
}

// NodeID returns the comment ID.
func (c *Comment) NodeID() uuid.UUID { return c.ID }

// NodeParent returns the ID of the comment this one replies to.
func (c *Comment) NodeParent() *uuid.UUID { return c.ParentID }

// ReactionOf returns how userID voted on the comment.
func (c *Comment) ReactionOf(userID uuid.UUID) Reaction {
	if slices.Contains(c.Likes, userID) {
		return ReactionLike
	}
	if slices.Contains(c.Dislikes, userID) {
		return ReactionDislike
	}
	return ReactionNone
}

// Counts summarises the vote sets from userID's point of view.
func (c *Comment) Counts(userID uuid.UUID) ReactionCounts {
	r := c.ReactionOf(userID)
	return ReactionCounts{
		Likes:    len(c.Likes),
		Dislikes: len(c.Dislikes),
		Liked:    r == ReactionLike,
		Disliked: r == ReactionDislike,
	}
}

// ReactionCounts is returned by the like/dislike toggles.
type ReactionCounts struct {
	Likes    int  `json:"likes"`
	Dislikes int  `json:"dislikes"`
	Liked    bool `json:"liked"`
	Disliked bool `json:"disliked"`
}
