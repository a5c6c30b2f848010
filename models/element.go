package models

// Element is a named item placed in a category. Img holds a bare filename
// inside the upload directory, never a path or URL.
type Element struct {
	ID         uint    `gorm:"primaryKey"`
	CategoryID uint    `gorm:"not null;index"`
	Name       string  `gorm:"size:255;not null"`
	Img        *string `gorm:"size:255"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Element) TableName() string { return "elements" }

type ElementView struct {
	ID         uint    `json:"id"`
	CategoryID uint    `json:"category_id"`
	Name       string  `json:"name"`
	Img        *string `json:"img"`
}

func (e Element) Serialize() ElementView {
	return ElementView{
		ID:         e.ID,
		CategoryID: e.CategoryID,
		Name:       e.Name,
		Img:        e.Img,
	}
}
