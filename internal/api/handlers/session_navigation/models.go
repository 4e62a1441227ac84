package session_navigation

// Виды событий навигации
const (
	KindRoute        = "route"
	KindBeforeUnload = "beforeunload"
	KindUnload       = "unload"
)

// NavigationRequest HTTP request model
// Confirmed - ответ пользователя на вопрос "leaving will cancel your booking"
type NavigationRequest struct {
	Kind      string `json:"kind"`
	Target    string `json:"target,omitempty"`
	Confirmed bool   `json:"confirmed"`
}

// NavigationResponse HTTP response model
type NavigationResponse struct {
	Proceed            bool   `json:"proceed"`
	Target             string `json:"target,omitempty"`
	Prompt             string `json:"prompt,omitempty"`
	Abandoned          bool   `json:"abandoned"`
	CompensationFailed bool   `json:"compensationFailed"`
	ShowUnloadWarning  bool   `json:"showUnloadWarning"`
}
