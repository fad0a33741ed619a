// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// TaxonomyTable represents a name + slug table (core.category, core.genre).
type TaxonomyTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// CoreCategory is the schema definition for core.category
var CoreCategory = TaxonomyTable{
	Table: "core.category",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// CoreGenre is the schema definition for core.genre
var CoreGenre = TaxonomyTable{
	Table: "core.genre",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

func (t TaxonomyTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
