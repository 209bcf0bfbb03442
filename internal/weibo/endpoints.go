package weibo

const (
	defaultHomeTimelineURL = "https://api.weibo.com/2/statuses/home_timeline.json"
	defaultUnreadCountURL  = "https://rm.api.weibo.com/2/remind/unread_count.json"
	defaultUpdateURL       = "https://api.weibo.com/2/statuses/update.json"
	defaultUploadURL       = "https://upload.api.weibo.com/2/statuses/upload.json"
	defaultUserShowURL     = "https://api.weibo.com/2/users/show.json"
	defaultAccessTokenURL  = "https://api.weibo.com/oauth2/access_token"
	defaultAuthorizeURL    = "https://api.weibo.com/oauth2/authorize"
)

// Endpoint names used for metrics and logs.
const (
	EndpointHomeTimeline = "home_timeline"
	EndpointUnreadCount  = "unread_count"
	EndpointUpdate       = "update"
	EndpointUpload       = "upload"
	EndpointUserShow     = "users_show"
	EndpointAccessToken  = "access_token"
)

// Endpoints holds the URLs the client talks to. Zero fields fall back to the
// production Weibo hosts, so tests only override what they serve.
type Endpoints struct {
	HomeTimeline string
	UnreadCount  string
	Update       string
	Upload       string
	UserShow     string
	AccessToken  string
	Authorize    string
}

// DefaultEndpoints returns the production Weibo endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		HomeTimeline: defaultHomeTimelineURL,
		UnreadCount:  defaultUnreadCountURL,
		Update:       defaultUpdateURL,
		Upload:       defaultUploadURL,
		UserShow:     defaultUserShowURL,
		AccessToken:  defaultAccessTokenURL,
		Authorize:    defaultAuthorizeURL,
	}
}

// withDefaults fills empty URLs from the production set.
func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.HomeTimeline == "" {
		e.HomeTimeline = d.HomeTimeline
	}
	if e.UnreadCount == "" {
		e.UnreadCount = d.UnreadCount
	}
	if e.Update == "" {
		e.Update = d.Update
	}
	if e.Upload == "" {
		e.Upload = d.Upload
	}
	if e.UserShow == "" {
		e.UserShow = d.UserShow
	}
	if e.AccessToken == "" {
		e.AccessToken = d.AccessToken
	}
	if e.Authorize == "" {
		e.Authorize = d.Authorize
	}
	return e
}
