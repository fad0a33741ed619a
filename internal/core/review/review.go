// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review implements reviews of titles and the comments under them.

Every review belongs to one title and one author, and an author reviews a
title at most once. Comments belong to a review. Both are listed newest first
and are scoped by their parents: a review id that exists under another title
is reported as not found.
*/
package review

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Review is a scored text about a title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// Comment is a reply to a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// ReviewPatch carries the fields of a partial review update.
type ReviewPatch struct {
	Text  *string
	Score *int
}

// # Persistence Contracts

// Repository defines persistence for reviews and comments.
//
// Lookups take the parent ids and return NotFound when the child exists
// under a different parent.
type Repository interface {
	ListReviews(context context.Context, titleID int64, params pagination.Params) ([]*Review, int, error)
	FindReview(context context.Context, titleID, reviewID int64) (*Review, error)
	CreateReview(context context.Context, review *Review) error
	UpdateReview(context context.Context, review *Review) error
	DeleteReview(context context.Context, titleID, reviewID int64) error

	ListComments(context context.Context, reviewID int64, params pagination.Params) ([]*Comment, int, error)
	FindComment(context context.Context, reviewID, commentID int64) (*Comment, error)
	CreateComment(context context.Context, comment *Comment) error
	UpdateComment(context context.Context, comment *Comment) error
	DeleteComment(context context.Context, reviewID, commentID int64) error
}

// TitleLookup reports whether a title exists. title.PostgresRepository
// satisfies it.
type TitleLookup interface {
	Exists(context context.Context, id int64) (bool, error)
}

const (
	resourceTitle   = "Title"
	resourceReview  = "Review"
	resourceComment = "Comment"

	fieldText  = "text"
	fieldScore = "score"

	reviewTextMaxLen  = 500
	commentTextMaxLen = 200
)
