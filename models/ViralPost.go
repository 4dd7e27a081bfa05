package models

import "gorm.io/gorm"

// ViralPost is a discovered high-engagement post pulled from an Apify scrape
// run, kept for inspiration in the content editor.
type ViralPost struct {
	gorm.Model
	UserID       uint   `json:"userID" gorm:"index"`
	Platform     string `json:"platform" gorm:"type:varchar(20)"`
	AuthorName   string `json:"authorName"`
	AuthorURL    string `json:"authorURL"`
	Content      string `json:"content"`
	PostURL      string `json:"postURL"`
	LikeCount    int    `json:"likeCount"`
	CommentCount int    `json:"commentCount"`
	ShareCount   int    `json:"shareCount"`
	Topic        string `json:"topic"`
}
