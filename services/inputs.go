package services

import "io"

// Request schemas. Controllers decode and validate these before any service
// method runs; the validate tags are the single source of field rules.

type CreateUserInput struct {
	Name  string `json:"name" validate:"required,notblank,max=255,nohtml"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// UpdateUserInput overwrites every mutable user field.
type UpdateUserInput struct {
	Name  string `json:"name" validate:"required,notblank,max=255,nohtml"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type CreateTierlistInput struct {
	Title       string  `json:"title" validate:"required,notblank,max=255,nohtml"`
	Description *string `json:"description" validate:"omitempty,max=65535"`
	CreatedBy   uint    `json:"created_by" validate:"required"`
}

// UpdateTierlistInput overwrites title and description; an absent
// description clears it. The owner never changes.
type UpdateTierlistInput struct {
	Title       string  `json:"title" validate:"required,notblank,max=255,nohtml"`
	Description *string `json:"description" validate:"omitempty,max=65535"`
}

type CreateCategoryInput struct {
	TierlistID uint   `json:"tierlist_id" validate:"required"`
	Name       string `json:"name" validate:"required,notblank,max=255,nohtml"`
	Order      *int   `json:"order" validate:"required"`
}

type UpdateCategoryInput struct {
	Name  string `json:"name" validate:"required,notblank,max=255,nohtml"`
	Order *int   `json:"order" validate:"required"`
}

// CreateElementInput.Img references a file previously stored through the
// upload endpoint. It is ignored when an image is uploaded with the request.
type CreateElementInput struct {
	CategoryID uint    `json:"category_id" validate:"required"`
	Name       string  `json:"name" validate:"required,notblank,max=255,nohtml"`
	Img        *string `json:"img" validate:"omitempty,max=255"`
}

// UpdateElementInput overwrites name and img. KeepImage is set for
// multipart requests without an image part, which leave img untouched.
type UpdateElementInput struct {
	Name      string  `json:"name" validate:"required,notblank,max=255,nohtml"`
	Img       *string `json:"img" validate:"omitempty,max=255"`
	KeepImage bool    `json:"-"`
}

// ImageUpload is an image file received with a request.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}
