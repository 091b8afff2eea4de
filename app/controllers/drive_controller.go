package controllers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/TeamFoxHQ/TeamFox/app/models"
	"github.com/TeamFoxHQ/TeamFox/internal/pkg/usercontext"
)

// HandleListSites returns the SharePoint sites registered in the portal.
func HandleListSites(c *fiber.Ctx) error {
	sites, err := repos.SharePointSite.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not load sites",
		})
	}
	return c.JSON(fiber.Map{"sites": sites})
}

// HandleDiscoverSites lists all sites visible to the user in Graph; used by
// admins to pick sites to register.
func HandleDiscoverSites(c *fiber.Ctx) error {
	sites, err := graph.SearchSites(c.Context(), usercontext.GetUserID(c))
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"sites": sites})
}

type registerSiteRequest struct {
	SiteID      string `json:"site_id"`
	DisplayName string `json:"display_name"`
	WebURL      string `json:"web_url"`
	Description string `json:"description"`
}

// HandleRegisterSite registers a SharePoint site for portal browsing.
func HandleRegisterSite(c *fiber.Ctx) error {
	var req registerSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	site := &models.SharePointSite{
		SiteID:      req.SiteID,
		DisplayName: req.DisplayName,
		WebURL:      req.WebURL,
		Description: req.Description,
	}
	if err := site.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := repos.SharePointSite.GetBySiteID(req.SiteID)
	if err == nil && existing != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   "already_registered",
			"message": "this site is already registered",
		})
	}
	if err := repos.SharePointSite.Create(site); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_error",
			"message": "could not register site",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(site)
}

// HandleUnregisterSite removes a site registration; the site itself is untouched.
func HandleUnregisterSite(c *fiber.Ctx) error {
	id, err := paramUint(c, "id")
	if err != nil {
		return badRequest(c, "invalid site id")
	}
	if err := repos.SharePointSite.Delete(id); err != nil {
		return notFoundJSON(c)
	}
	return c.JSON(fiber.Map{"message": "unregistered"})
}

// siteFromParam resolves the :id route parameter to a registered site.
func siteFromParam(c *fiber.Ctx) (*models.SharePointSite, error) {
	id, err := paramUint(c, "id")
	if err != nil {
		return nil, err
	}
	return repos.SharePointSite.GetByID(id)
}

// HandleListDriveItems lists the children of a folder in a registered site's
// default drive. All continuation pages are concatenated.
func HandleListDriveItems(c *fiber.Ctx) error {
	site, err := siteFromParam(c)
	if err != nil {
		return notFoundJSON(c)
	}
	items, err := graph.ListDriveItems(c.Context(), usercontext.GetUserID(c), site.SiteID, c.Query("folder"))
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"site": site.DisplayName, "items": items})
}

type createFolderRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

// HandleCreateFolder creates a folder in a registered site's drive.
func HandleCreateFolder(c *fiber.Ctx) error {
	site, err := siteFromParam(c)
	if err != nil {
		return notFoundJSON(c)
	}
	var req createFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.Name == "" {
		return badRequest(c, "folder name is required")
	}
	item, err := graph.CreateFolder(c.Context(), usercontext.GetUserID(c), site.SiteID, req.ParentID, req.Name)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleUploadFile uploads a file into a registered site's drive.
func HandleUploadFile(c *fiber.Ctx) error {
	site, err := siteFromParam(c)
	if err != nil {
		return notFoundJSON(c)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file field missing")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "could not read file")
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return badRequest(c, "could not read file")
	}

	item, err := graph.UploadFile(
		c.Context(),
		usercontext.GetUserID(c),
		site.SiteID,
		c.FormValue("parent_id"),
		fileHeader.Filename,
		content,
	)
	if err != nil {
		return renderGraphError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

type renameItemRequest struct {
	Name string `json:"name"`
}

// HandleRenameItem renames a drive item.
func HandleRenameItem(c *fiber.Ctx) error {
	site, err := siteFromParam(c)
	if err != nil {
		return notFoundJSON(c)
	}
	var req renameItemRequest
	if err := c.BodyParser(&req); err != nil || req.Name == "" {
		return badRequest(c, "name is required")
	}
	if err := graph.RenameItem(c.Context(), usercontext.GetUserID(c), site.SiteID, c.Params("itemId"), req.Name); err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"message": "renamed"})
}

// HandleDeleteItem deletes a drive item.
func HandleDeleteItem(c *fiber.Ctx) error {
	site, err := siteFromParam(c)
	if err != nil {
		return notFoundJSON(c)
	}
	if err := graph.DeleteItem(c.Context(), usercontext.GetUserID(c), site.SiteID, c.Params("itemId")); err != nil {
		return renderGraphError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// HandleDownloadItem streams a file's content to the client.
func HandleDownloadItem(c *fiber.Ctx) error {
	site, err := siteFromParam(c)
	if err != nil {
		return notFoundJSON(c)
	}
	content, err := graph.DownloadItem(c.Context(), usercontext.GetUserID(c), site.SiteID, c.Params("itemId"))
	if err != nil {
		return renderGraphError(c, err)
	}
	c.Set("Content-Disposition", "attachment")
	return c.Send(content)
}
