package service

import (
	"testing"

	"github.com/countryhouse/ads-service/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestIsAllowed(t *testing.T) {
	author := entity.Actor{ID: "author1", Roles: []entity.Role{entity.RoleOwner}}
	contractor := entity.Actor{ID: "contractor1", Roles: []entity.Role{entity.RoleContractor}}
	admin := entity.Actor{ID: "admin1", Roles: []entity.Role{entity.RoleAdmin}}
	stranger := entity.Actor{ID: "stranger1"}

	resource := Resource{AdAuthorID: "author1", ContractorID: "contractor1"}

	tests := []struct {
		name   string
		actor  entity.Actor
		action Action
		want   bool
	}{
		{"author cancels own ad", author, ActionCancelAd, true},
		{"stranger cancels ad", stranger, ActionCancelAd, false},
		{"contractor cancels ad", contractor, ActionCancelAd, false},
		{"author edits own ad", author, ActionEditAd, true},
		{"author views requests", author, ActionViewAdRequests, true},
		{"contractor views requests", contractor, ActionViewAdRequests, false},
		{"author accepts request", author, ActionAcceptRequest, true},
		{"contractor accepts own request", contractor, ActionAcceptRequest, false},
		{"author rejects request", author, ActionRejectRequest, true},
		{"contractor edits own request", contractor, ActionEditRequest, true},
		{"author edits foreign request", author, ActionEditRequest, false},
		{"contractor deletes own request", contractor, ActionDeleteRequest, true},
		{"contractor accomplishes own request", contractor, ActionAccomplishRequest, true},
		{"author accomplishes request", author, ActionAccomplishRequest, false},
		{"admin cancels any ad", admin, ActionCancelAd, true},
		{"admin edits any request", admin, ActionEditRequest, true},
		{"admin accomplishes any request", admin, ActionAccomplishRequest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAllowed(tt.actor, tt.action, resource))
		})
	}
}

func TestIsAllowed_EmptyOwnershipNeverMatches(t *testing.T) {
	actor := entity.Actor{ID: ""}
	assert.False(t, IsAllowed(actor, ActionCancelAd, Resource{}))
	assert.False(t, IsAllowed(actor, ActionEditRequest, Resource{}))
}

func TestIsAllowed_UnknownActionDenied(t *testing.T) {
	admin := entity.Actor{ID: "admin1", Roles: []entity.Role{entity.RoleAdmin}}
	assert.True(t, IsAllowed(admin, Action("something.new"), Resource{}))

	user := entity.Actor{ID: "user1"}
	assert.False(t, IsAllowed(user, Action("something.new"), Resource{AdAuthorID: "user1"}))
}
