package dto

import (
	"time"

	"github.com/yigit/skillshare/internal/app/models"
)

// CreateReviewRequest appends a review to a skill
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse is a review as shown on the detail page
type ReviewResponse struct {
	ID           string    `json:"id"`
	SkillID      string    `json:"skillId"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName,omitempty"`
	AuthorAvatar string    `json:"authorAvatar,omitempty"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReviewListResponse is a page of reviews
type ReviewListResponse struct {
	Items      []ReviewResponse `json:"items"`
	Pagination PaginationInfo   `json:"pagination"`
}

// CreateReviewResponse returns the new review and the recomputed aggregate
type CreateReviewResponse struct {
	Review      ReviewResponse `json:"review"`
	Rating      float64        `json:"rating" example:"4.33"`
	RatingCount int            `json:"ratingCount" example:"3"`
}

// NewReviewResponse maps a joined review row
func NewReviewResponse(r *models.ReviewWithAuthor) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		SkillID:      r.SkillID,
		AuthorID:     r.AuthorID,
		AuthorName:   r.AuthorName,
		AuthorAvatar: r.AuthorAvatar,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}
