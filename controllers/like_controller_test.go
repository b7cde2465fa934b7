package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikePostTwiceConflicts(t *testing.T) {
	r, _ := setupRouter(t)
	_, tokenA := signup(t, r, "A", "a@x.com", "secret1")
	_, tokenB := signup(t, r, "B", "b@x.com", "secret2")
	postID := createPost(t, r, tokenA, "Hi", "Hello world")

	w := doJSON(r, http.MethodPost, "/posts/"+postID+"/like", nil, tokenB)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, postID, body["post_id"])

	w = doJSON(r, http.MethodPost, "/posts/"+postID+"/like", nil, tokenB)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already liked")

	// A different user may still like the same post.
	w = doJSON(r, http.MethodPost, "/posts/"+postID+"/like", nil, tokenA)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestLikeMissingPostIs404(t *testing.T) {
	r, _ := setupRouter(t)
	_, token := signup(t, r, "A", "a@x.com", "secret1")

	w := doJSON(r, http.MethodPost, "/posts/missing/like", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnlikeIsIdempotent(t *testing.T) {
	r, _ := setupRouter(t)
	_, tokenA := signup(t, r, "A", "a@x.com", "secret1")
	_, tokenB := signup(t, r, "B", "b@x.com", "secret2")
	postID := createPost(t, r, tokenA, "Hi", "Hello world")

	// Unliking a never-liked post is a no-op success.
	w := doJSON(r, http.MethodPost, "/posts/"+postID+"/unlike", nil, tokenB)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodPost, "/posts/"+postID+"/like", nil, tokenB)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodDelete, "/posts/"+postID+"/like", nil, tokenB)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// After unlike, the pair can be liked again.
	w = doJSON(r, http.MethodPost, "/posts/"+postID+"/like", nil, tokenB)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCommentLikes(t *testing.T) {
	r, _ := setupRouter(t)
	_, tokenA := signup(t, r, "A", "a@x.com", "secret1")
	_, tokenB := signup(t, r, "B", "b@x.com", "secret2")
	postID := createPost(t, r, tokenA, "Hi", "Hello world")
	commentID := createComment(t, r, tokenB, postID, "nice")

	w := doJSON(r, http.MethodPost, "/comments/"+commentID+"/like", nil, tokenA)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, commentID, decodeBody(t, w)["comment_id"])

	w = doJSON(r, http.MethodPost, "/comments/"+commentID+"/like", nil, tokenA)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/comments/missing/like", nil, tokenA)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodDelete, "/comments/"+commentID+"/like", nil, tokenA)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodPost, "/comments/"+commentID+"/unlike", nil, tokenA)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// End-to-end walk through the whole surface: signup, post, cross-user
// delete attempt, owner delete, empty listing.
func TestFullScenario(t *testing.T) {
	r, _ := setupRouter(t)

	userA, tokenA := signup(t, r, "A", "a@x.com", "secret1")
	_, tokenB := signup(t, r, "B", "b@x.com", "secret2")

	w := doJSON(r, http.MethodPost, "/posts", map[string]string{"title": "Hi", "content": "Hello world"}, tokenA)
	require.Equal(t, http.StatusCreated, w.Code)
	post := decodeBody(t, w)
	require.Equal(t, userA, post["author_id"])
	postID := post["id"].(string)

	w = doJSON(r, http.MethodDelete, "/posts/"+postID, nil, tokenB)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(r, http.MethodDelete, "/posts/"+postID, nil, tokenA)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/posts", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}
