package models

import "gorm.io/gorm"

type Tutorial struct {
	gorm.Model
	Title   string `gorm:"not null" json:"title" binding:"required"`
	Content string `gorm:"not null;type:text" json:"content" binding:"required"`
}
