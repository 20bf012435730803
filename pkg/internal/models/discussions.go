package models

// Discussion posts and their comments live outside any chat room. Unlike
// chat messages they are removed by row deletion, never tombstoned, and
// each content type carries its own delete window.

type Post struct {
	BaseModel

	Title    string    `json:"title"`
	Body     string    `json:"body"`
	AuthorID uint      `json:"author_id"`
	Author   Account   `json:"author"`
	Comments []Comment `json:"comments"`
}

type Comment struct {
	BaseModel

	Body     string  `json:"body"`
	PostID   uint    `json:"post_id"`
	Post     Post    `json:"post"`
	AuthorID uint    `json:"author_id"`
	Author   Account `json:"author"`
}
