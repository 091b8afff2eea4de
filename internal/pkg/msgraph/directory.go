package msgraph

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Me returns the signed-in user's Graph profile.
func (c *Client) Me(ctx context.Context, userID uint) (*Profile, error) {
	var g graphUser
	path := "/me?$select=id,displayName,mail,userPrincipalName,jobTitle,officeLocation,mobilePhone"
	if err := c.getJSON(ctx, userID, path, &g); err != nil {
		return nil, err
	}
	p := profileFromGraph(g)
	return &p, nil
}

// MyPhoto returns the profile photo as a base64 data URI, or an empty string
// when the user has none (Graph answers 404 in that case).
func (c *Client) MyPhoto(ctx context.Context, userID uint) (string, error) {
	data, err := c.do(ctx, userID, http.MethodGet, "/me/photo/$value", nil, "")
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// MyGroups lists the groups the user is a member of. The memberOf endpoint
// also returns directory roles; anything that is not a group object is
// filtered out.
func (c *Client) MyGroups(ctx context.Context, userID uint) ([]Group, error) {
	var groups []Group
	path := "/me/memberOf"
	for path != "" {
		var list graphList[graphGroup]
		if err := c.getJSON(ctx, userID, path, &list); err != nil {
			return nil, err
		}
		for _, g := range list.Value {
			if !strings.EqualFold(g.ODataType, "#microsoft.graph.group") {
				continue
			}
			groups = append(groups, groupFromGraph(g))
		}
		path = list.NextLink
	}
	return groups, nil
}
