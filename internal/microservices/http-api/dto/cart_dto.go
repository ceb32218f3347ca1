package dto

type CartQuoteRequest struct {
	CourseIDs []string `json:"courseIds" binding:"required,min=1,max=100"`
}
