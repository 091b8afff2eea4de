package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// SearchSites lists the SharePoint sites visible to the user.
func (c *Client) SearchSites(ctx context.Context, userID uint) ([]Site, error) {
	var sites []Site
	path := "/sites?search=*"
	for path != "" {
		var list graphList[graphSite]
		if err := c.getJSON(ctx, userID, path, &list); err != nil {
			return nil, err
		}
		for _, g := range list.Value {
			sites = append(sites, siteFromGraph(g))
		}
		path = list.NextLink
	}
	return sites, nil
}

// ListDriveItems lists the children of a folder in a site's default drive.
// folderID may be empty for the drive root. Continuation cursors are followed
// internally so the folder view is always complete.
func (c *Client) ListDriveItems(ctx context.Context, userID uint, siteID, folderID string) ([]DriveItem, error) {
	var path string
	if folderID == "" {
		path = fmt.Sprintf("/sites/%s/drive/root/children", url.PathEscape(siteID))
	} else {
		path = fmt.Sprintf("/sites/%s/drive/items/%s/children", url.PathEscape(siteID), url.PathEscape(folderID))
	}

	var items []DriveItem
	for path != "" {
		var list graphList[graphDriveItem]
		if err := c.getJSON(ctx, userID, path, &list); err != nil {
			return nil, err
		}
		for _, g := range list.Value {
			items = append(items, driveItemFromGraph(g))
		}
		path = list.NextLink
	}
	return items, nil
}

// CreateFolder creates a folder under the given parent (drive root when
// parentID is empty). Name conflicts are resolved by renaming, matching the
// portal's "New folder (1)" behavior.
func (c *Client) CreateFolder(ctx context.Context, userID uint, siteID, parentID, name string) (*DriveItem, error) {
	var path string
	if parentID == "" {
		path = fmt.Sprintf("/sites/%s/drive/root/children", url.PathEscape(siteID))
	} else {
		path = fmt.Sprintf("/sites/%s/drive/items/%s/children", url.PathEscape(siteID), url.PathEscape(parentID))
	}

	req := map[string]interface{}{
		"name":                              name,
		"folder":                            map[string]interface{}{},
		"@microsoft.graph.conflictBehavior": "rename",
	}

	var g graphDriveItem
	if err := c.postJSON(ctx, userID, path, req, &g); err != nil {
		return nil, err
	}
	item := driveItemFromGraph(g)
	return &item, nil
}

// UploadFile uploads raw file content under the given parent (drive root when
// parentID is empty). Content replaces any existing file of the same name.
func (c *Client) UploadFile(ctx context.Context, userID uint, siteID, parentID, name string, content []byte) (*DriveItem, error) {
	var path string
	if parentID == "" {
		path = fmt.Sprintf("/sites/%s/drive/root:/%s:/content", url.PathEscape(siteID), url.PathEscape(name))
	} else {
		path = fmt.Sprintf("/sites/%s/drive/items/%s:/%s:/content", url.PathEscape(siteID), url.PathEscape(parentID), url.PathEscape(name))
	}

	data, err := c.do(ctx, userID, http.MethodPut, path, content, "application/octet-stream")
	if err != nil {
		return nil, err
	}

	var g graphDriveItem
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, &GatewayError{Body: fmt.Sprintf("decode response: %v", err)}
	}
	item := driveItemFromGraph(g)
	return &item, nil
}

// RenameItem renames a drive item.
func (c *Client) RenameItem(ctx context.Context, userID uint, siteID, itemID, newName string) error {
	path := fmt.Sprintf("/sites/%s/drive/items/%s", url.PathEscape(siteID), url.PathEscape(itemID))
	return c.patchJSON(ctx, userID, path, map[string]string{"name": newName})
}

// DeleteItem deletes a drive item (file or folder).
func (c *Client) DeleteItem(ctx context.Context, userID uint, siteID, itemID string) error {
	path := fmt.Sprintf("/sites/%s/drive/items/%s", url.PathEscape(siteID), url.PathEscape(itemID))
	return c.delete(ctx, userID, path)
}

// DownloadItem returns the raw content of a file.
func (c *Client) DownloadItem(ctx context.Context, userID uint, siteID, itemID string) ([]byte, error) {
	path := fmt.Sprintf("/sites/%s/drive/items/%s/content", url.PathEscape(siteID), url.PathEscape(itemID))
	return c.do(ctx, userID, http.MethodGet, path, nil, "")
}
