package model

// MigrateAble is array of model instance, use for migrating database
var MigrateAble []interface{}

func init() {
	MigrateAble = append(
		MigrateAble,
		&User{},
		&Student{},
		&Company{},
		&File{},
		&Job{},
		&SelectionRound{},
		&Application{},
		&RoundProgress{},
		&Notification{},
	)
}
