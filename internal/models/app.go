package models

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages            []Message            // Current transcript to display
	Input               string               // User input field
	Status              string               // Status bar text
	Loading             bool                 // Assistant reply in progress
	LoadingDots         int                  // Animation counter for loading dots
	Width               int                  // Terminal width
	Height              int                  // Terminal height
	ConnState           ConnectionState      // Connection state from core
	PendingConfirmation *ConfirmationRequest // Current confirmation request
}
