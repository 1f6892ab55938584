package core

import "fmt"

// User is a person registered with the remote API.
type User struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Website  string  `json:"website"`
	Address  Address `json:"address"`
	Company  Company `json:"company"`
}

// Address is the postal address of a User.
type Address struct {
	Street  string `json:"street"`
	Suite   string `json:"suite"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// Company is the employer of a User.
type Company struct {
	Name        string `json:"name"`
	CatchPhrase string `json:"catchPhrase"`
	BS          string `json:"bs"`
}

// Post is an article written by a User.
type Post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Comment is a reply attached to a Post.
type Comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// FormatAddress renders an address on one line: "suite street, city, zipcode".
func FormatAddress(a Address) string {
	return fmt.Sprintf("%s %s, %s, %s", a.Suite, a.Street, a.City, a.Zipcode)
}

// AppendComment returns a new slice with c appended as a locally created
// comment. The comment gets the next sequential id (max existing id + 1) and
// the post id shared by the collection, falling back to postID when the
// collection is empty. The input slice is never modified.
func AppendComment(comments []Comment, postID int, c Comment) []Comment {
	maxID := 0
	for _, existing := range comments {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	if len(comments) > 0 {
		postID = comments[0].PostID
	}

	c.ID = maxID + 1
	c.PostID = postID

	out := make([]Comment, 0, len(comments)+1)
	out = append(out, comments...)
	return append(out, c)
}
