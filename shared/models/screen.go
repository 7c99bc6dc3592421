package models

import "time"

// Screen is one persisted node of a story tree. Roots have a nil ParentID.
// Screens are immutable once written.
type Screen struct {
	ScreenID     string    `db:"screen_id" json:"screenID"`
	ParentID     *string   `db:"parent_id" json:"parentID"`
	Genre        string    `db:"genre" json:"genre"`
	StoryText    string    `db:"story_text" json:"storyText"`
	Choices      []string  `db:"user_choices" json:"userChoices"`
	LandscapeURL string    `db:"landscape_url" json:"landscapeURL"`
	PortraitURL  string    `db:"portrait_url" json:"portraitURL"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// IsRoot reports whether the screen starts a story.
func (s *Screen) IsRoot() bool {
	return s.ParentID == nil || *s.ParentID == ""
}

// Clone returns a deep copy so stores never share slices with callers.
func (s *Screen) Clone() *Screen {
	if s == nil {
		return nil
	}
	c := *s
	if s.ParentID != nil {
		p := *s.ParentID
		c.ParentID = &p
	}
	if s.Choices != nil {
		c.Choices = append([]string(nil), s.Choices...)
	}
	return &c
}

// ImageSet holds the two orientations generated for a scene.
type ImageSet struct {
	LandscapeURL string `json:"landscapeURL"`
	PortraitURL  string `json:"portraitURL"`
}
