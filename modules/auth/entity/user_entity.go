package entity

import "taskcal/core/entity"

type User struct {
	entity.BaseEntity
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
}
