package repository

// Category is a row of the categories table.
type Category struct {
	ID   int    `gorm:"primaryKey"`
	Type string `gorm:"type:text;not null"`
}

func (Category) TableName() string { return "categories" }

// Question is a row of the questions table. Category references categories.id.
type Question struct {
	ID         int    `gorm:"primaryKey"`
	Question   string `gorm:"type:text;not null"`
	Answer     string `gorm:"type:text;not null"`
	Category   int    `gorm:"not null;index"`
	Difficulty int    `gorm:"not null"`
}

func (Question) TableName() string { return "questions" }
