// Copyright (c) 2026 Artistphere. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package artist owns the artist record: its model, the mode-based validator,
the storage contract with its implementations, the service that orchestrates
validate → resolve image → persist, and the HTTP handlers.

Request lifecycle:

	Received → Validating → ImageResolving → Persisting → Responding

Any step's error short-circuits the rest. Nothing is retried.
*/
package artist

import (
	"time"

	"github.com/taibuivan/artistphere/internal/platform/media"
)

// Artist is the canonical persisted record.
type Artist struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	ImageRef      string        `json:"imageRef"`
	Bio           string        `json:"bio"`
	Paragraph1    string        `json:"paragraph1"`
	Paragraph2    string        `json:"paragraph2"`
	Paragraph3    string        `json:"paragraph3"`
	HitSong       string        `json:"hitSong"`
	Charity       string        `json:"charity"`
	AboutCharity  string        `json:"aboutCharity"`
	PlatformLinks PlatformLinks `json:"platformLinks"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Clone returns a deep copy.
func (a *Artist) Clone() *Artist {
	clone := *a
	clone.PlatformLinks = a.PlatformLinks.Complete()
	return &clone
}

// # Platforms

// Platform is one of the fixed streaming/social networks an artist can link to.
type Platform string

const (
	Spotify    Platform = "spotify"
	SoundCloud Platform = "soundcloud"
	YouTube    Platform = "youtube"
	Instagram  Platform = "instagram"
	AppleMusic Platform = "applemusic"
	Beatport   Platform = "beatport"
	Bandcamp   Platform = "bandcamp"
	Twitter    Platform = "twitter"
	Deezer     Platform = "deezer"
	Audiomack  Platform = "audiomack"
	Twitch     Platform = "twitch"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	Spotify, SoundCloud, YouTube, Instagram, AppleMusic, Beatport,
	Bandcamp, Twitter, Deezer, Audiomack, Twitch,
}

// IsPlatform reports whether name is a supported platform key.
func IsPlatform(name string) bool {
	for _, platform := range Platforms {
		if string(platform) == name {
			return true
		}
	}
	return false
}

// PlatformLinks maps platform to profile URL. An empty string means "no link".
type PlatformLinks map[Platform]string

// Complete returns a copy that carries every platform key, defaulting to "".
func (links PlatformLinks) Complete() PlatformLinks {
	complete := make(PlatformLinks, len(Platforms))
	for _, platform := range Platforms {
		complete[platform] = links[platform]
	}
	return complete
}

// Merge returns a complete copy of links with patch applied on top.
func (links PlatformLinks) Merge(patch PlatformLinks) PlatformLinks {
	merged := links.Complete()
	for platform, url := range patch {
		merged[platform] = url
	}
	return merged
}

// # Input

// Payload is the client-submitted artist body. Nil pointers mean "absent".
//
// Only these fields are accepted; anything else in a JSON body is rejected
// by the decoder.
type Payload struct {
	ID            *string           `json:"id,omitempty"`
	Name          *string           `json:"name,omitempty"`
	Img           *string           `json:"img,omitempty"`
	Bio           *string           `json:"bio,omitempty"`
	Paragraph1    *string           `json:"paragraph1,omitempty"`
	Paragraph2    *string           `json:"paragraph2,omitempty"`
	Paragraph3    *string           `json:"paragraph3,omitempty"`
	HitSong       *string           `json:"hitSong,omitempty"`
	Charity       *string           `json:"charity,omitempty"`
	AboutCharity  *string           `json:"aboutCharity,omitempty"`
	PlatformLinks map[string]string `json:"platformLinks,omitempty"`

	// ImageFile is set from a multipart file part, never from JSON.
	ImageFile *media.FileUpload `json:"-"`
}

// Image returns the raw image material carried by the payload.
func (payload *Payload) Image() media.Input {
	input := media.Input{File: payload.ImageFile}
	if payload.Img != nil {
		input.Ref = *payload.Img
	}
	return input
}

// Patch is a validated set of field replacements. Nil means "leave as is".
// PlatformLinks entries are merged key by key.
type Patch struct {
	Name          *string
	ImageRef      *string
	Bio           *string
	Paragraph1    *string
	Paragraph2    *string
	Paragraph3    *string
	HitSong       *string
	Charity       *string
	AboutCharity  *string
	PlatformLinks PlatformLinks
}

// Empty reports whether the patch changes nothing.
func (patch *Patch) Empty() bool {
	return patch.Name == nil && patch.ImageRef == nil && patch.Bio == nil &&
		patch.Paragraph1 == nil && patch.Paragraph2 == nil && patch.Paragraph3 == nil &&
		patch.HitSong == nil && patch.Charity == nil && patch.AboutCharity == nil &&
		len(patch.PlatformLinks) == 0
}

// Apply merges the patch into a copy of artist.
func (patch *Patch) Apply(artist *Artist) *Artist {
	next := artist.Clone()
	assign := func(target *string, value *string) {
		if value != nil {
			*target = *value
		}
	}
	assign(&next.Name, patch.Name)
	assign(&next.ImageRef, patch.ImageRef)
	assign(&next.Bio, patch.Bio)
	assign(&next.Paragraph1, patch.Paragraph1)
	assign(&next.Paragraph2, patch.Paragraph2)
	assign(&next.Paragraph3, patch.Paragraph3)
	assign(&next.HitSong, patch.HitSong)
	assign(&next.Charity, patch.Charity)
	assign(&next.AboutCharity, patch.AboutCharity)
	next.PlatformLinks = next.PlatformLinks.Merge(patch.PlatformLinks)
	return next
}

// NewArtist builds a fresh record from a patch. Unset text fields are "".
func NewArtist(patch *Patch) *Artist {
	return patch.Apply(&Artist{})
}

// # Upsert

// Identity is the upsert identity hint. Exactly one of ID and Name is used;
// ID wins when both are set.
type Identity struct {
	ID   string
	Name string
}

// UpsertResult is the upsert response body.
type UpsertResult struct {
	Artist     *Artist `json:"artist"`
	WasCreated bool    `json:"wasCreated"`
}

// BatchFailure describes one rejected item of a batch create.
type BatchFailure struct {
	Index   int    `json:"index"`
	Name    string `json:"name,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchResult is the batch create response body.
type BatchResult struct {
	Created []*Artist      `json:"created"`
	Failed  []BatchFailure `json:"failed"`
}

// # Fields

const (
	FieldID            = "id"
	FieldName          = "name"
	FieldImg           = media.FieldImage
	FieldBio           = "bio"
	FieldParagraph1    = "paragraph1"
	FieldParagraph2    = "paragraph2"
	FieldParagraph3    = "paragraph3"
	FieldHitSong       = "hitSong"
	FieldCharity       = "charity"
	FieldAboutCharity  = "aboutCharity"
	FieldPlatformLinks = "platformLinks"
)

const (
	MaxNameLength = 200
	MaxTextLength = 10000
	MaxLinkLength = 2048
)
