// Package authz maps roles to the actions they may perform.
package authz

import "github.com/yukikurage/civicconnect-api/internal/models"

type Action string

const (
	ComplaintCreate    Action = "complaint:create"
	ComplaintUpdate    Action = "complaint:update"
	ComplaintAddUpdate Action = "complaint:add-update"
	ComplaintDeleteAny Action = "complaint:delete-any"
	ComplaintUpvote    Action = "complaint:upvote"
	CommentCreate      Action = "comment:create"
	CommentDeleteAny   Action = "comment:delete-any"
	VolunteerCreate    Action = "volunteer:create"
	VolunteerJoin      Action = "volunteer:join"
)

var communityActions = []Action{
	ComplaintCreate,
	ComplaintUpvote,
	CommentCreate,
	VolunteerCreate,
	VolunteerJoin,
}

var capabilities = buildCapabilities()

func buildCapabilities() map[models.Role]map[Action]bool {
	grant := func(actions ...Action) map[Action]bool {
		set := make(map[Action]bool, len(actions))
		for _, a := range actions {
			set[a] = true
		}
		return set
	}

	authority := append(append([]Action{}, communityActions...), ComplaintUpdate, ComplaintAddUpdate)
	admin := append(append([]Action{}, authority...), ComplaintDeleteAny, CommentDeleteAny)

	return map[models.Role]map[Action]bool{
		models.RoleCitizen:   grant(communityActions...),
		models.RoleVolunteer: grant(communityActions...),
		models.RoleAuthority: grant(authority...),
		models.RoleAdmin:     grant(admin...),
	}
}

// Can reports whether role is allowed to perform action.
func Can(role models.Role, action Action) bool {
	return capabilities[role][action]
}

// CanDeleteComplaint allows the creator, or anyone holding ComplaintDeleteAny.
func CanDeleteComplaint(actorID uint64, role models.Role, creatorID uint64) bool {
	return actorID == creatorID || Can(role, ComplaintDeleteAny)
}

// CanDeleteComment allows the author, or anyone holding CommentDeleteAny.
func CanDeleteComment(actorID uint64, role models.Role, authorID uint64) bool {
	return actorID == authorID || Can(role, CommentDeleteAny)
}
