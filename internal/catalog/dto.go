package catalog

// CreateCategoryInput captures the fields accepted when creating a category.
type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Slug        string  `json:"slug" validate:"omitempty,min=2,max=120"`
	BasePrice   int64   `json:"base_price" validate:"min=0"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder   int     `json:"sort_order"`
}

// UpdateCategoryInput carries partial updates; nil fields are left untouched.
type UpdateCategoryInput struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Slug        *string `json:"slug" validate:"omitempty,min=2,max=120"`
	BasePrice   *int64  `json:"base_price" validate:"omitempty,min=0"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

// CreateTierInput captures the fields accepted when creating a price tier.
type CreateTierInput struct {
	CategoryID             string  `json:"category_id" validate:"required,uuid"`
	Name                   string  `json:"name" validate:"required,min=2,max=120"`
	Price                  int64   `json:"price" validate:"min=0"`
	SessionCount           int     `json:"session_count" validate:"omitempty,min=1,max=50"`
	SessionDurationMinutes int     `json:"session_duration_minutes" validate:"omitempty,min=15,max=720"`
	Description            *string `json:"description" validate:"omitempty,max=2000"`
	SortOrder              int     `json:"sort_order"`
}

// UpdateTierInput carries partial updates; nil fields are left untouched.
type UpdateTierInput struct {
	Name                   *string `json:"name" validate:"omitempty,min=2,max=120"`
	Price                  *int64  `json:"price" validate:"omitempty,min=0"`
	SessionCount           *int    `json:"session_count" validate:"omitempty,min=1,max=50"`
	SessionDurationMinutes *int    `json:"session_duration_minutes" validate:"omitempty,min=15,max=720"`
	Description            *string `json:"description" validate:"omitempty,max=2000"`
	IsActive               *bool   `json:"is_active"`
	SortOrder              *int    `json:"sort_order"`
}
