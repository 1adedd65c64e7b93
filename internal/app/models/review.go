package models

import "time"

// Review is a learner's rating of a skill
type Review struct {
	ID        string    `json:"id" db:"id"`
	SkillID   string    `json:"skillId" db:"skill_id"`
	AuthorID  string    `json:"authorId" db:"author_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ReviewWithAuthor joins the author's display name.
type ReviewWithAuthor struct {
	Review
	AuthorName   string `db:"author_name"`
	AuthorAvatar string `db:"author_avatar"`
}
