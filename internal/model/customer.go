// internal/model/customer.go
package model

type Customer struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name" validate:"required,max=255"`
	LastName  string `db:"last_name" json:"last_name" validate:"required,max=255"`
	Email     string `db:"email" json:"email" validate:"required,email,max=320"`
}
