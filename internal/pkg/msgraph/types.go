package msgraph

// Wire shapes mirror the subset of Graph JSON the portal reads. They stay
// unexported; every resource has exactly one mapping function into the
// exported portal type, so field handling lives in one place per resource
// instead of being rebuilt inline at call sites.

type graphList[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

type graphEmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	ID               string           `json:"id"`
	Subject          string           `json:"subject"`
	BodyPreview      string           `json:"bodyPreview"`
	Body             *graphItemBody   `json:"body"`
	From             *graphRecipient  `json:"from"`
	ToRecipients     []graphRecipient `json:"toRecipients"`
	CcRecipients     []graphRecipient `json:"ccRecipients"`
	ReceivedDateTime string           `json:"receivedDateTime"`
	SentDateTime     string           `json:"sentDateTime"`
	IsRead           bool             `json:"isRead"`
	HasAttachments   bool             `json:"hasAttachments"`
	WebLink          string           `json:"webLink"`
}

type graphMailFolder struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	ParentFolderID   string `json:"parentFolderId"`
	ChildFolderCount int    `json:"childFolderCount"`
	UnreadItemCount  int    `json:"unreadItemCount"`
	TotalItemCount   int    `json:"totalItemCount"`
}

type graphDateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	ID          string            `json:"id"`
	Subject     string            `json:"subject"`
	BodyPreview string            `json:"bodyPreview"`
	Start       graphDateTimeZone `json:"start"`
	End         graphDateTimeZone `json:"end"`
	IsAllDay    bool              `json:"isAllDay"`
	Location    struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
	Organizer *graphRecipient `json:"organizer"`
	WebLink   string          `json:"webLink"`
}

type graphScheduleItem struct {
	Status string            `json:"status"`
	Start  graphDateTimeZone `json:"start"`
	End    graphDateTimeZone `json:"end"`
}

type graphScheduleInformation struct {
	ScheduleID       string              `json:"scheduleId"`
	AvailabilityView string              `json:"availabilityView"`
	ScheduleItems    []graphScheduleItem `json:"scheduleItems"`
}

type graphSite struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	WebURL      string `json:"webUrl"`
}

type graphDriveItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	WebURL string `json:"webUrl"`
	Folder *struct {
		ChildCount int `json:"childCount"`
	} `json:"folder"`
	File *struct {
		MimeType string `json:"mimeType"`
	} `json:"file"`
	LastModifiedDateTime string `json:"lastModifiedDateTime"`
	DownloadURL          string `json:"@microsoft.graph.downloadUrl"`
}

type graphGroup struct {
	ODataType   string `json:"@odata.type"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Mail        string `json:"mail"`
}

type graphUser struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
	JobTitle          string `json:"jobTitle"`
	OfficeLocation    string `json:"officeLocation"`
	MobilePhone       string `json:"mobilePhone"`
}

// Portal-facing types. Read-mostly, never persisted, recreated on every call.

type EmailAddress struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type Message struct {
	ID             string         `json:"id"`
	Subject        string         `json:"subject"`
	Preview        string         `json:"preview"`
	Body           string         `json:"body,omitempty"`
	BodyType       string         `json:"body_type,omitempty"`
	From           *EmailAddress  `json:"from,omitempty"`
	To             []EmailAddress `json:"to,omitempty"`
	Cc             []EmailAddress `json:"cc,omitempty"`
	ReceivedAt     string         `json:"received_at,omitempty"`
	SentAt         string         `json:"sent_at,omitempty"`
	IsRead         bool           `json:"is_read"`
	HasAttachments bool           `json:"has_attachments"`
	WebLink        string         `json:"web_link,omitempty"`
}

// MessagePage is one page of a message listing. NextLink is an opaque
// continuation cursor; callers pass it back verbatim for the next page.
type MessagePage struct {
	Messages []Message `json:"messages"`
	NextLink string    `json:"next_link,omitempty"`
}

type MailFolder struct {
	ID             string       `json:"id"`
	DisplayName    string       `json:"display_name"`
	ParentFolderID string       `json:"parent_folder_id,omitempty"`
	UnreadCount    int          `json:"unread_count"`
	TotalCount     int          `json:"total_count"`
	Children       []MailFolder `json:"children,omitempty"`
}

type Event struct {
	ID        string        `json:"id"`
	Subject   string        `json:"subject"`
	Preview   string        `json:"preview,omitempty"`
	Start     string        `json:"start"`
	End       string        `json:"end"`
	TimeZone  string        `json:"time_zone,omitempty"`
	IsAllDay  bool          `json:"is_all_day"`
	Location  string        `json:"location,omitempty"`
	Organizer *EmailAddress `json:"organizer,omitempty"`
	WebLink   string        `json:"web_link,omitempty"`
}

type ScheduleItem struct {
	Status string `json:"status"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// Schedule is the free/busy view for one mailbox.
type Schedule struct {
	Email            string         `json:"email"`
	AvailabilityView string         `json:"availability_view"`
	Items            []ScheduleItem `json:"items"`
}

type Site struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	WebURL      string `json:"web_url"`
}

type DriveItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Size           int64  `json:"size"`
	IsFolder       bool   `json:"is_folder"`
	ChildCount     int    `json:"child_count,omitempty"`
	MimeType       string `json:"mime_type,omitempty"`
	WebURL         string `json:"web_url,omitempty"`
	LastModifiedAt string `json:"last_modified_at,omitempty"`
	DownloadURL    string `json:"-"`
}

type Group struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Mail        string `json:"mail,omitempty"`
}

type Profile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"display_name"`
	Mail              string `json:"mail,omitempty"`
	UserPrincipalName string `json:"user_principal_name"`
	JobTitle          string `json:"job_title,omitempty"`
	OfficeLocation    string `json:"office_location,omitempty"`
	MobilePhone       string `json:"mobile_phone,omitempty"`
}

// Email returns the best mail address for display; Graph leaves mail unset
// for some account types.
func (p Profile) Email() string {
	if p.Mail != "" {
		return p.Mail
	}
	return p.UserPrincipalName
}

// Mapping functions, one per resource.

func emailAddressFromGraph(r *graphRecipient) *EmailAddress {
	if r == nil {
		return nil
	}
	return &EmailAddress{Name: r.EmailAddress.Name, Address: r.EmailAddress.Address}
}

func recipientsFromGraph(rs []graphRecipient) []EmailAddress {
	if len(rs) == 0 {
		return nil
	}
	out := make([]EmailAddress, 0, len(rs))
	for _, r := range rs {
		out = append(out, EmailAddress{Name: r.EmailAddress.Name, Address: r.EmailAddress.Address})
	}
	return out
}

func messageFromGraph(g graphMessage) Message {
	m := Message{
		ID:             g.ID,
		Subject:        g.Subject,
		Preview:        g.BodyPreview,
		From:           emailAddressFromGraph(g.From),
		To:             recipientsFromGraph(g.ToRecipients),
		Cc:             recipientsFromGraph(g.CcRecipients),
		ReceivedAt:     g.ReceivedDateTime,
		SentAt:         g.SentDateTime,
		IsRead:         g.IsRead,
		HasAttachments: g.HasAttachments,
		WebLink:        g.WebLink,
	}
	if g.Body != nil {
		m.Body = g.Body.Content
		m.BodyType = g.Body.ContentType
	}
	return m
}

func mailFolderFromGraph(g graphMailFolder) MailFolder {
	return MailFolder{
		ID:             g.ID,
		DisplayName:    g.DisplayName,
		ParentFolderID: g.ParentFolderID,
		UnreadCount:    g.UnreadItemCount,
		TotalCount:     g.TotalItemCount,
	}
}

func eventFromGraph(g graphEvent) Event {
	return Event{
		ID:        g.ID,
		Subject:   g.Subject,
		Preview:   g.BodyPreview,
		Start:     g.Start.DateTime,
		End:       g.End.DateTime,
		TimeZone:  g.Start.TimeZone,
		IsAllDay:  g.IsAllDay,
		Location:  g.Location.DisplayName,
		Organizer: emailAddressFromGraph(g.Organizer),
		WebLink:   g.WebLink,
	}
}

func scheduleFromGraph(g graphScheduleInformation) Schedule {
	s := Schedule{
		Email:            g.ScheduleID,
		AvailabilityView: g.AvailabilityView,
	}
	for _, it := range g.ScheduleItems {
		s.Items = append(s.Items, ScheduleItem{
			Status: it.Status,
			Start:  it.Start.DateTime,
			End:    it.End.DateTime,
		})
	}
	return s
}

func siteFromGraph(g graphSite) Site {
	return Site{ID: g.ID, Name: g.Name, DisplayName: g.DisplayName, WebURL: g.WebURL}
}

func driveItemFromGraph(g graphDriveItem) DriveItem {
	item := DriveItem{
		ID:             g.ID,
		Name:           g.Name,
		Size:           g.Size,
		WebURL:         g.WebURL,
		LastModifiedAt: g.LastModifiedDateTime,
		DownloadURL:    g.DownloadURL,
	}
	if g.Folder != nil {
		item.IsFolder = true
		item.ChildCount = g.Folder.ChildCount
	}
	if g.File != nil {
		item.MimeType = g.File.MimeType
	}
	return item
}

func groupFromGraph(g graphGroup) Group {
	return Group{ID: g.ID, DisplayName: g.DisplayName, Description: g.Description, Mail: g.Mail}
}

func profileFromGraph(g graphUser) Profile {
	return Profile{
		ID:                g.ID,
		DisplayName:       g.DisplayName,
		Mail:              g.Mail,
		UserPrincipalName: g.UserPrincipalName,
		JobTitle:          g.JobTitle,
		OfficeLocation:    g.OfficeLocation,
		MobilePhone:       g.MobilePhone,
	}
}
