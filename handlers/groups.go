package handlers

import (
	"net/http"

	"studyload/apperrors"
	"studyload/groups"
	"studyload/models"
)

type createGroupRequest struct {
	Name string `json:"name"`
}

type joinGroupRequest struct {
	InviteCode string `json:"invite_code,omitempty"`
	GroupID    int64  `json:"group_id,omitempty"`
}

type groupResponse struct {
	groups.Outcome
	Group *models.Group `json:"group,omitempty"`
}

func writeOutcome(w http.ResponseWriter, r *http.Request, err error, success string, status int, g models.Group) {
	out := groupResponse{Outcome: groups.OutcomeOf(err, success)}
	if err != nil {
		code := apperrors.GetCode(err)
		if code == apperrors.CodeUnknown || code == apperrors.CodeStoreUnavailable {
			writeError(w, r, err)
			return
		}
		writeJSON(w, apperrors.HTTPStatus(err), out)
		return
	}
	out.Group = &g
	writeJSON(w, status, out)
}

// GroupsHandler lists the groups the user belongs to, newest first.
func (a *App) GroupsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := a.Groups.ForUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (a *App) CreateGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req createGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := a.Groups.Create(r.Context(), req.Name, userID)
	writeOutcome(w, r, err, "Group created", http.StatusCreated, g)
}

// JoinGroupHandler joins by invite code, or by group id when no code is given.
func (a *App) JoinGroupHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req joinGroupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var g models.Group
	var err error
	switch {
	case req.InviteCode != "":
		g, err = a.Groups.JoinByCode(r.Context(), req.InviteCode, userID)
	case req.GroupID > 0:
		g, err = a.Groups.Join(r.Context(), req.GroupID, userID)
	default:
		err = apperrors.Validation("invite_code or group_id is required")
	}
	writeOutcome(w, r, err, groups.JoinedMessage(g), http.StatusOK, g)
}

func (a *App) MembersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	members, err := a.Groups.Members(r.Context(), userID, groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (a *App) GroupTasksHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := a.Groups.Tasks(r.Context(), userID, groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// AddGroupTaskHandler creates a task in a group the user belongs to.
func (a *App) AddGroupTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, err := a.Tasks.AddGroupTask(r.Context(), userID, groupID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (a *App) GroupAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	groupID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.Groups.RequireMember(r.Context(), groupID, userID); err != nil {
		writeError(w, r, err)
		return
	}
	stats, err := a.Engine.GroupAnalytics(r.Context(), groupID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
