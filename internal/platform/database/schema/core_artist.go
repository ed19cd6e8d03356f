// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema is the column registry for SQL built in the store layer.
package schema

// ArtistTable represents the 'artists' table
type ArtistTable struct {
	Table         string
	ID            string
	Name          string
	ImageRef      string
	Bio           string
	Paragraph1    string
	Paragraph2    string
	Paragraph3    string
	HitSong       string
	Charity       string
	AboutCharity  string
	PlatformLinks string
	CreatedAt     string
	UpdatedAt     string

	// NameConstraint is the unique constraint backing name uniqueness.
	NameConstraint string
}

// Artist is the schema definition for the artists table
var Artist = ArtistTable{
	Table:          "artists",
	ID:             "id",
	Name:           "name",
	ImageRef:       "image_ref",
	Bio:            "bio",
	Paragraph1:     "paragraph1",
	Paragraph2:     "paragraph2",
	Paragraph3:     "paragraph3",
	HitSong:        "hit_song",
	Charity:        "charity",
	AboutCharity:   "about_charity",
	PlatformLinks:  "platform_links",
	CreatedAt:      "created_at",
	UpdatedAt:      "updated_at",
	NameConstraint: "artists_name_key",
}

// Columns lists every column in scan order.
func (t ArtistTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.ImageRef, t.Bio, t.Paragraph1, t.Paragraph2, t.Paragraph3,
		t.HitSong, t.Charity, t.AboutCharity, t.PlatformLinks, t.CreatedAt, t.UpdatedAt,
	}
}

// TextColumns lists the free-text columns in their canonical order.
func (t ArtistTable) TextColumns() []string {
	return []string{t.Bio, t.Paragraph1, t.Paragraph2, t.Paragraph3, t.HitSong, t.Charity, t.AboutCharity}
}
