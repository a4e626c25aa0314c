package service

import "github.com/countryhouse/ads-service/internal/domain/entity"

type Action string

const (
	ActionCancelAd          Action = "ad.cancel"
	ActionEditAd            Action = "ad.edit"
	ActionViewAdRequests    Action = "ad.view_requests"
	ActionEditRequest       Action = "request.edit"
	ActionDeleteRequest     Action = "request.delete"
	ActionAcceptRequest     Action = "request.accept"
	ActionRejectRequest     Action = "request.reject"
	ActionAccomplishRequest Action = "request.accomplish"
)

// Resource carries the ownership facts a decision needs: the author of the
// ad involved and/or the contractor of the request involved.
type Resource struct {
	AdAuthorID   string
	ContractorID string
}

// IsAllowed is the whole authorization policy: admins may do anything, ad
// actions (including deciding requests) belong to the ad author, request
// actions belong to the contractor who filed it. Callers check resource
// existence before consulting the policy, so a deny always means forbidden
// rather than missing.
func IsAllowed(actor entity.Actor, action Action, resource Resource) bool {
	if actor.IsAdmin() {
		return true
	}
	switch action {
	case ActionCancelAd, ActionEditAd, ActionViewAdRequests,
		ActionAcceptRequest, ActionRejectRequest:
		return resource.AdAuthorID != "" && actor.ID == resource.AdAuthorID
	case ActionEditRequest, ActionDeleteRequest, ActionAccomplishRequest:
		return resource.ContractorID != "" && actor.ID == resource.ContractorID
	}
	return false
}
