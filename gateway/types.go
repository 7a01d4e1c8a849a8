package gateway

// Result types for each backend endpoint. Payload shapes are declared and
// validated here at the gateway boundary; a shape mismatch surfaces as a
// Failure outcome instead of propagating zero values into the views.

// UserInfo is the account summary attached to auth responses.
type UserInfo struct {
	Credits int `json:"credits"`
}

// LoginResult is the response of POST /api/login/.
type LoginResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// RegisterResult is the response of POST /api/register/. The backend either
// issues a token immediately or returns a pending-verification message.
type RegisterResult struct {
	Token   string   `json:"token"`
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

// ActivateResult is the response of POST /api/activate/.
type ActivateResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GenerateRequest is the payload for the free and premium generation
// endpoints. Field names follow the backend contract.
type GenerateRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	ImprovedPrompt string `json:"improved_prompt,omitempty"`
	SelectedModel  string `json:"selected_model"`
	ImprovePrompt  bool   `json:"improve_prompt,omitempty"`
}

// GenerateResult is the response of the generation endpoints.
type GenerateResult struct {
	ImageURL       string `json:"image_url"`
	ImprovedPrompt string `json:"improved_prompt"`
}

// ArenaImage is one entry of the arena generation batch: the same prompt
// rendered by several models side by side.
type ArenaImage struct {
	ID       int64  `json:"id"`
	ImageURL string `json:"image_url"`
	Prompt   string `json:"prompt"`
	Model    string `json:"model"`
}

// arenaResponse is the wire shape of POST /api/arena-generate/.
type arenaResponse struct {
	Results []ArenaImage `json:"results"`
}

// GenerationLog carries the prompt and model that produced an artifact.
type GenerationLog struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
}

// GalleryItem is one artifact in a gallery page.
type GalleryItem struct {
	ID            int64         `json:"id"`
	URL           string        `json:"url"`
	ThumbnailURL  string        `json:"thumbnail_url"`
	Votes         int           `json:"votes"`
	GenerationLog GenerationLog `json:"generation_log"`
	CreatedAt     string        `json:"created_at"`
}

// GalleryPage is the response of GET /api/gallery-images/. Pages are
// replaced wholesale on pagination; Next and Previous are opaque cursor
// URLs supplied by the backend ("" when absent).
type GalleryPage struct {
	Results  []GalleryItem `json:"results"`
	Next     string        `json:"next"`
	Previous string        `json:"previous"`
}

// randomPromptResponse is the wire shape of GET /api/random-prompt/.
type randomPromptResponse struct {
	Prompt string `json:"prompt"`
}

// errorBody is the error payload shape the backend uses; fields are
// alternatives, checked in order.
type errorBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}
