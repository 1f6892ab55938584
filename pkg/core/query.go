package core

import (
	"fmt"
	"strconv"
)

// Entity names a collection exposed by the remote API.
type Entity string

// Entities served by the API.
const (
	EntityUsers    Entity = "users"
	EntityPosts    Entity = "posts"
	EntityComments Entity = "comments"
)

// Valid reports whether e is one of the known entities.
func (e Entity) Valid() bool {
	switch e {
	case EntityUsers, EntityPosts, EntityComments:
		return true
	default:
		return false
	}
}

// QueryKey identifies one collection: an entity, optionally scoped to a
// parent entity id (e.g. the posts of user 3). It is comparable and is used
// as the cache key.
type QueryKey struct {
	Entity   Entity
	Parent   Entity
	ParentID int
}

// UsersKey identifies the full user list.
func UsersKey() QueryKey {
	return QueryKey{Entity: EntityUsers}
}

// PostsKey identifies the full post list.
func PostsKey() QueryKey {
	return QueryKey{Entity: EntityPosts}
}

// UserPostsKey identifies the posts written by one user.
func UserPostsKey(userID int) QueryKey {
	return QueryKey{Entity: EntityPosts, Parent: EntityUsers, ParentID: userID}
}

// PostCommentsKey identifies the comments attached to one post.
func PostCommentsKey(postID int) QueryKey {
	return QueryKey{Entity: EntityComments, Parent: EntityPosts, ParentID: postID}
}

// Scoped reports whether the key is restricted to a parent entity.
func (k QueryKey) Scoped() bool {
	return k.Parent != ""
}

// Path returns the API path serving the collection:
// "/users", or "/users/3/posts" for a scoped key.
func (k QueryKey) Path() string {
	if !k.Scoped() {
		return "/" + string(k.Entity)
	}
	return fmt.Sprintf("/%s/%d/%s", k.Parent, k.ParentID, k.Entity)
}

// String renders the key the way it is logged and indexed, e.g. "users/3/posts".
func (k QueryKey) String() string {
	if !k.Scoped() {
		return string(k.Entity)
	}
	return string(k.Parent) + "/" + strconv.Itoa(k.ParentID) + "/" + string(k.Entity)
}

// EntityPath returns the API path of a single entity, e.g. "/posts/7".
func EntityPath(e Entity, id int) string {
	return fmt.Sprintf("/%s/%d", e, id)
}
