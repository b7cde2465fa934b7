package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	r, _ := setupRouter(t)
	_, tokenA := signup(t, r, "A", "a@x.com", "secret1")
	userB, tokenB := signup(t, r, "B", "b@x.com", "secret2")
	postID := createPost(t, r, tokenA, "Hi", "Hello world")

	w := doJSON(r, http.MethodPost, "/posts/"+postID+"/comments", gin.H{"content": "nice"}, tokenB)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, postID, body["post_id"])
	assert.Equal(t, userB, body["author_id"])
	assert.Equal(t, "nice", body["content"])

	w = doJSON(r, http.MethodPost, "/posts/missing/comments", gin.H{"content": "x"}, tokenB)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/posts/"+postID+"/comments", gin.H{}, tokenB)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/posts/"+postID+"/comments", gin.H{"content": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListCommentsAggregates(t *testing.T) {
	r, _ := setupRouter(t)
	_, tokenA := signup(t, r, "A", "a@x.com", "secret1")
	_, tokenB := signup(t, r, "B", "b@x.com", "secret2")
	postID := createPost(t, r, tokenA, "Hi", "Hello world")
	commentID := createComment(t, r, tokenB, postID, "first")
	createComment(t, r, tokenA, postID, "second")

	w := doJSON(r, http.MethodPost, "/comments/"+commentID+"/like", nil, tokenA)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/posts/"+postID+"/comments", nil, tokenA)
	require.Equal(t, http.StatusOK, w.Code)
	comments := decodeList(t, w)
	require.Len(t, comments, 2)
	// Oldest first.
	assert.Equal(t, "first", comments[0]["content"])
	assert.Equal(t, "B", comments[0]["author_name"])
	assert.EqualValues(t, 1, comments[0]["likes_count"])
	assert.Equal(t, true, comments[0]["is_liked"])
	assert.Equal(t, false, comments[1]["is_liked"])

	// Anonymous viewers never see a liked flag.
	w = doJSON(r, http.MethodGet, "/posts/"+postID+"/comments", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	for _, comment := range decodeList(t, w) {
		assert.Equal(t, false, comment["is_liked"])
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	r, _ := setupRouter(t)
	_, tokenOwner := signup(t, r, "Owner", "owner@x.com", "secret1")
	_, tokenCommenter := signup(t, r, "C", "c@x.com", "secret2")
	_, tokenThird := signup(t, r, "T", "t@x.com", "secret3")
	postID := createPost(t, r, tokenOwner, "Hi", "Hello world")

	// A third party may not delete someone else's comment.
	commentID := createComment(t, r, tokenCommenter, postID, "mine")
	w := doJSON(r, http.MethodDelete, "/comments/"+commentID, nil, tokenThird)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The comment's author may.
	w = doJSON(r, http.MethodDelete, "/comments/"+commentID, nil, tokenCommenter)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// The parent post's author may as well.
	commentID = createComment(t, r, tokenCommenter, postID, "another")
	w = doJSON(r, http.MethodDelete, "/comments/"+commentID, nil, tokenOwner)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodDelete, "/comments/"+commentID, nil, tokenOwner)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
