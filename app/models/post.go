package models

import (
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	return validate.Struct(p)
}

// BeforeSave stamps the post with the save time. Every save moves the
// date forward, so Date is the last-saved date rather than a creation date.
func (p *Post) BeforeSave(now time.Time) {
	p.Date = now.UTC()
}

// HasTag reports whether the post carries the given tag
func (p *Post) HasTag(tagID int) bool {
	for _, id := range p.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// AddTag attaches a tag to the post. Adding a tag twice is a no-op.
func (p *Post) AddTag(tagID int) {
	if !p.HasTag(tagID) {
		p.TagIDs = append(p.TagIDs, tagID)
	}
}

// RemoveTag detaches a tag from the post
func (p *Post) RemoveTag(tagID int) bool {
	for i, id := range p.TagIDs {
		if id == tagID {
			p.TagIDs = append(p.TagIDs[:i], p.TagIDs[i+1:]...)
			return true
		}
	}
	return false
}

// SetAuthor sets the author reference; a nil author clears it.
func (p *Post) SetAuthor(author *Author) {
	if author == nil {
		p.AuthorID = nil
		return
	}
	id := author.ID
	p.AuthorID = &id
}

// URL returns the path of the post's detail page.
func (p *Post) URL() string {
	return "/posts/" + p.Slug
}
