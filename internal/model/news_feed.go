package model

import "time"

type NewsFeed struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}
