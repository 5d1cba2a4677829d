package domain

import "gorm.io/gorm"

type FaqItem struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Question string `gorm:"not null" json:"question"`
	Answer   string `gorm:"not null" json:"answer"`
	Category string `gorm:"not null" json:"category"`
	Order    int    `gorm:"column:display_order;default:0" json:"order"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
	gorm.Model
}
