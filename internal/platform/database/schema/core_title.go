// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreTitleTable represents the 'core.title' table
type CoreTitleTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	Year        string
	CategoryID  string
}

// CoreTitle is the schema definition for core.title
var CoreTitle = CoreTitleTable{
	Table:       "core.title",
	ID:          "id",
	Name:        "name",
	Description: "description",
	Year:        "year",
	CategoryID:  "category_id",
}

// TitleGenreTable represents the 'core.title_genre' junction
type TitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// TitleGenre is the schema definition for core.title_genre
var TitleGenre = TitleGenreTable{
	Table:   "core.title_genre",
	TitleID: "title_id",
	GenreID: "genre_id",
}
