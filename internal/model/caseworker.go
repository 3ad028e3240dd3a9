package model

import "gorm.io/gorm"

// Caseworker is an HR operator acting on the pipeline. The engine only needs
// an identity to stamp onto mutating calls; account management lives elsewhere.
type Caseworker struct {
	gorm.Model
	ServiceID string `json:"service_id" gorm:"uniqueIndex;not null"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"-"`
}
