package model

// File stores an uploaded document (resumes, offer letters) directly in
// the database. Small portal, hundreds of users, no blob store needed.
type File struct {
	ID        int `gorm:"primaryKey"`
	Content   []byte
	Extension string
}
