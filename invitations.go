package vortex

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// InvitationTarget identifies who an invitation is addressed to, e.g.
// {Type: "email", Value: "a@b.com"}.
type InvitationTarget struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Invitation is the wire model of a pending or resolved invitation.
type Invitation struct {
	ID        string           `json:"id"`
	Target    InvitationTarget `json:"target"`
	Group     Group            `json:"group"`
	Status    string           `json:"status,omitempty"`
	InvitedBy string           `json:"invitedBy,omitempty"`
	CreatedAt time.Time        `json:"createdAt,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt,omitempty"`
}

type invitationList struct {
	Invitations []Invitation `json:"invitations"`
}

// GetInvitationsByTarget lists invitations addressed to a target.
func (c *Client) GetInvitationsByTarget(ctx context.Context, targetType, targetValue string) ([]Invitation, error) {
	return trackOperation(c, opGetInvitationsByTarget, []any{targetType, targetValue}, func() ([]Invitation, error) {
		query := url.Values{
			"targetType":  {targetType},
			"targetValue": {targetValue},
		}
		list, err := callJSON[invitationList](ctx, c.gw, opGetInvitationsByTarget, "/invitations", callOptions{
			query: query,
		}, false)
		if err != nil {
			return nil, err
		}
		return list.Invitations, nil
	})
}

// GetInvitation fetches a single invitation by id.
func (c *Client) GetInvitation(ctx context.Context, invitationID string) (*Invitation, error) {
	return trackOperation(c, opGetInvitation, []any{invitationID}, func() (*Invitation, error) {
		return callJSON[*Invitation](ctx, c.gw, opGetInvitation, "/invitations/"+url.PathEscape(invitationID), callOptions{}, false)
	})
}

// RevokeInvitation deletes an invitation by id.
func (c *Client) RevokeInvitation(ctx context.Context, invitationID string) error {
	_, err := trackOperation(c, opRevokeInvitation, []any{invitationID}, func() (struct{}, error) {
		return callJSON[struct{}](ctx, c.gw, opRevokeInvitation, "/invitations/"+url.PathEscape(invitationID), callOptions{
			method: http.MethodDelete,
		}, false)
	})
	return err
}

type acceptRequest struct {
	InvitationIDs []string         `json:"invitationIds"`
	Target        InvitationTarget `json:"target"`
}

// AcceptInvitations accepts a batch of invitations on behalf of a target.
func (c *Client) AcceptInvitations(ctx context.Context, invitationIDs []string, target InvitationTarget) (*Invitation, error) {
	return trackOperation(c, opAcceptInvitations, []any{invitationIDs, target.Type, target.Value}, func() (*Invitation, error) {
		return callJSON[*Invitation](ctx, c.gw, opAcceptInvitations, "/invitations/accept", callOptions{
			method: http.MethodPost,
			body:   acceptRequest{InvitationIDs: invitationIDs, Target: target},
		}, false)
	})
}

// GetInvitationsByGroup lists invitations belonging to a group.
func (c *Client) GetInvitationsByGroup(ctx context.Context, groupType, groupID string) ([]Invitation, error) {
	return trackOperation(c, opGetInvitationsByGroup, []any{groupType, groupID}, func() ([]Invitation, error) {
		path := "/invitations/by-group/" + url.PathEscape(groupType) + "/" + url.PathEscape(groupID)
		list, err := callJSON[invitationList](ctx, c.gw, opGetInvitationsByGroup, path, callOptions{}, false)
		if err != nil {
			return nil, err
		}
		return list.Invitations, nil
	})
}

// DeleteInvitationsByGroup deletes every invitation belonging to a group.
func (c *Client) DeleteInvitationsByGroup(ctx context.Context, groupType, groupID string) error {
	_, err := trackOperation(c, opDeleteInvitationsByGroup, []any{groupType, groupID}, func() (struct{}, error) {
		path := "/invitations/by-group/" + url.PathEscape(groupType) + "/" + url.PathEscape(groupID)
		return callJSON[struct{}](ctx, c.gw, opDeleteInvitationsByGroup, path, callOptions{
			method: http.MethodDelete,
		}, false)
	})
	return err
}

// ReinviteInvitation re-sends an invitation by id.
func (c *Client) ReinviteInvitation(ctx context.Context, invitationID string) (*Invitation, error) {
	return trackOperation(c, opReinviteInvitation, []any{invitationID}, func() (*Invitation, error) {
		path := "/invitations/" + url.PathEscape(invitationID) + "/reinvite"
		return callJSON[*Invitation](ctx, c.gw, opReinviteInvitation, path, callOptions{
			method: http.MethodPost,
		}, false)
	})
}
