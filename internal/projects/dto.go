package projects

import "time"

// CreateProjectInput captures the fields accepted when creating a project.
type CreateProjectInput struct {
	Title        string     `json:"title" validate:"required,min=2,max=200"`
	Slug         string     `json:"slug" validate:"omitempty,min=2,max=200"`
	CategoryID   *string    `json:"category_id" validate:"omitempty,uuid"`
	OrderID      *string    `json:"order_id" validate:"omitempty,uuid"`
	MainImageURL *string    `json:"main_image_url" validate:"omitempty,url"`
	Description  *string    `json:"description" validate:"omitempty,max=4000"`
	ShotAt       *time.Time `json:"shot_at"`
}

// UpdateProjectInput carries partial updates; nil fields are left untouched.
type UpdateProjectInput struct {
	Title        *string    `json:"title" validate:"omitempty,min=2,max=200"`
	Slug         *string    `json:"slug" validate:"omitempty,min=2,max=200"`
	CategoryID   *string    `json:"category_id" validate:"omitempty,uuid"`
	MainImageURL *string    `json:"main_image_url" validate:"omitempty,url"`
	Description  *string    `json:"description" validate:"omitempty,max=4000"`
	ShotAt       *time.Time `json:"shot_at"`
	IsPublished  *bool      `json:"is_published"`
}

// AddImageInput captures one gallery image upload reference.
type AddImageInput struct {
	URL       string  `json:"url" validate:"required,url"`
	Caption   *string `json:"caption" validate:"omitempty,max=500"`
	SortOrder int     `json:"sort_order"`
}

// UpdateImageInput carries partial image updates, including reordering.
type UpdateImageInput struct {
	Caption   *string `json:"caption" validate:"omitempty,max=500"`
	SortOrder *int    `json:"sort_order"`
}
