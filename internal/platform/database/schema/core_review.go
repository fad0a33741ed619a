// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreReviewTable represents the 'core.review' table
type CoreReviewTable struct {
	Table    string
	ID       string
	TitleID  string
	AuthorID string
	Text     string
	Score    string
	PubDate  string
}

// CoreReview is the schema definition for core.review
var CoreReview = CoreReviewTable{
	Table:    "core.review",
	ID:       "id",
	TitleID:  "title_id",
	AuthorID: "author_id",
	Text:     "text",
	Score:    "score",
	PubDate:  "pub_date",
}

// CoreCommentTable represents the 'core.comment' table
type CoreCommentTable struct {
	Table    string
	ID       string
	ReviewID string
	AuthorID string
	Text     string
	PubDate  string
}

// CoreComment is the schema definition for core.comment
var CoreComment = CoreCommentTable{
	Table:    "core.comment",
	ID:       "id",
	ReviewID: "review_id",
	AuthorID: "author_id",
	Text:     "text",
	PubDate:  "pub_date",
}
