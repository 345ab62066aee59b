package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/civicconnect-api/internal/dto"
	"github.com/yukikurage/civicconnect-api/internal/models"
)

func TestVolunteerHandler_CreateAndJoin(t *testing.T) {
	env := setupTestEnv(t)
	organizer, organizerToken := env.createUser(t, models.RoleVolunteer)
	joiner, joinerToken := env.createUser(t, models.RoleCitizen)
	_, lateToken := env.createUser(t, models.RoleCitizen)

	w := env.request(t, http.MethodPost, "/api/volunteers/opportunities", map[string]interface{}{
		"title":              "Tree planting",
		"description":        "Plant saplings along the canal walk.",
		"category":           "environment",
		"location":           "Canal Walk",
		"date":               time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"duration":           "2 hours",
		"participantsNeeded": 1,
	}, organizerToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var opportunity dto.VolunteerOpportunityDTO
	decode(t, w, &opportunity)
	assert.Equal(t, organizer.ID, opportunity.Organizer.ID)
	assert.Equal(t, 5, opportunity.Points)
	assert.Equal(t, 1, opportunity.SpotsLeft)

	joinPath := fmt.Sprintf("/api/volunteers/opportunities/%d/join", opportunity.ID)

	w = env.request(t, http.MethodPost, joinPath, nil, joinerToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &opportunity)
	assert.Equal(t, []uint64{joiner.ID}, opportunity.Participants)
	assert.Equal(t, 0, opportunity.SpotsLeft)

	w = env.request(t, http.MethodPost, joinPath, nil, joinerToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "already joined", decode(t, w, nil).Error)

	w = env.request(t, http.MethodPost, joinPath, nil, lateToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "opportunity is full", decode(t, w, nil).Error)

	w = env.request(t, http.MethodPost, "/api/volunteers/opportunities/9999/join", nil, lateToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, "/api/volunteers/opportunities", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var open []dto.VolunteerOpportunityDTO
	decode(t, w, &open)
	require.Len(t, open, 1)
	assert.Len(t, open[0].Participants, 1)
}

func TestVolunteerHandler_CreateRejectsInvalid(t *testing.T) {
	env := setupTestEnv(t)
	_, signed := env.createUser(t, models.RoleVolunteer)

	w := env.request(t, http.MethodPost, "/api/volunteers/opportunities", map[string]interface{}{
		"title":              "No participants",
		"description":        "Missing count",
		"category":           "environment",
		"location":           "Somewhere",
		"date":               time.Now().UTC().Format(time.RFC3339),
		"duration":           "1 hour",
		"participantsNeeded": 0,
	}, signed)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
