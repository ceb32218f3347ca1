package dto

import "coursehub/internal/microservices/http-api/models"

type WishlistToggleResponse struct {
	Message    string `json:"message"`
	CourseID   string `json:"courseId"`
	InWishlist bool   `json:"inWishlist"`
}

type WishlistResponse struct {
	Count   int             `json:"count"`
	Courses []models.Course `json:"courses"`
}
