package transfer

type LinkedinUserInfo struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	Email      string `json:"email"`
}

type LinkedinErrorResponse struct {
	Message      string `json:"message"`
	ServiceError int    `json:"serviceErrorCode"`
	Status       int    `json:"status"`
	ErrorCode    string `json:"error"`
	ErrorMessage string `json:"error_description"`
}

// UGC post payload, shaped per the /v2/ugcPosts schema.

type UGCPost struct {
	Author          string          `json:"author"`
	LifecycleState  string          `json:"lifecycleState"`
	SpecificContent SpecificContent `json:"specificContent"`
	Visibility      UGCVisibility   `json:"visibility"`
}

type SpecificContent struct {
	ShareContent ShareContent `json:"com.linkedin.ugc.ShareContent"`
}

type ShareContent struct {
	ShareCommentary    ShareCommentary `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"` // NONE or IMAGE
	Media              []ShareMedia    `json:"media,omitempty"`
}

type ShareCommentary struct {
	Text string `json:"text"`
}

type ShareMedia struct {
	Status string `json:"status"`
	Media  string `json:"media"` // asset URN
}

type UGCVisibility struct {
	MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
}

type UGCPostResponse struct {
	ID string `json:"id"`
}

// Asset registration for image shares.

type RegisterUploadRequest struct {
	RegisterUploadRequestBody RegisterUploadRequestBody `json:"registerUploadRequest"`
}

type RegisterUploadRequestBody struct {
	Recipes              []string              `json:"recipes"`
	Owner                string                `json:"owner"`
	ServiceRelationships []ServiceRelationship `json:"serviceRelationships"`
}

type ServiceRelationship struct {
	RelationshipType string `json:"relationshipType"`
	Identifier       string `json:"identifier"`
}

type RegisterUploadResponse struct {
	Value RegisterUploadValue `json:"value"`
}

type RegisterUploadValue struct {
	Asset           string                  `json:"asset"`
	UploadMechanism RegisterUploadMechanism `json:"uploadMechanism"`
}

type RegisterUploadMechanism struct {
	MediaUploadHTTPRequest MediaUploadHTTPRequest `json:"com.linkedin.digitalmedia.uploading.MediaUploadHttpRequest"`
}

type MediaUploadHTTPRequest struct {
	UploadURL string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers"`
}
