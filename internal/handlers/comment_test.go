package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/civicconnect-api/internal/dto"
	"github.com/yukikurage/civicconnect-api/internal/models"
	"github.com/yukikurage/civicconnect-api/internal/testutil"
)

func TestCommentHandler(t *testing.T) {
	env := setupTestEnv(t)
	author, authorToken := env.createUser(t, models.RoleCitizen)
	_, otherToken := env.createUser(t, models.RoleCitizen)
	_, adminToken := env.createUser(t, models.RoleAdmin)
	complaint := testutil.CreateComplaint(t, env.db, author.ID)

	path := fmt.Sprintf("/api/complaints/%d/comments", complaint.ID)

	w := env.request(t, http.MethodPost, path, map[string]string{"text": "Any news on this?"}, authorToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first dto.CommentDTO
	decode(t, w, &first)
	assert.Equal(t, author.ID, first.User.ID)

	w = env.request(t, http.MethodPost, path, map[string]string{"text": "Same problem here"}, otherToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var second dto.CommentDTO
	decode(t, w, &second)

	w = env.request(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var comments []dto.CommentDTO
	decode(t, w, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("%s/%d", path, first.ID), nil, otherToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("%s/%d", path, first.ID), nil, authorToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodDelete, fmt.Sprintf("%s/%d", path, second.ID), nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/complaints/9999/comments", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
