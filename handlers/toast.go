package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// toast is the client notification payload carried in HX-Trigger.
type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	// Persist keeps the toast on screen until dismissed.
	Persist bool `json:"persist,omitempty"`
}

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client. If an HX-Trigger header already exists, the toast payload is
// merged into the existing JSON object. It also sets a flash cookie so toasts
// survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	setToast(e, toast{Message: message, Type: toastType})
}

func setToast(e *core.RequestEvent, t toast) {
	merged := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			log.Printf("toast: existing HX-Trigger is not valid JSON, overwriting: %v", err)
			merged = map[string]any{}
		}
	}
	merged["showToast"] = t

	data, err := json.Marshal(merged)
	if err != nil {
		log.Printf("toast: failed to marshal HX-Trigger JSON: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	cookieVal, err := json.Marshal(t)
	if err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // JS needs to read it
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ErrorToast sets a persistent error toast and answers with a JSON error body.
// HX-Reswap: none stops HTMX from swapping the error into the DOM.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	setToast(e, toast{Message: message, Type: "error", Persist: true})
	e.Response.Header().Set("HX-Reswap", "none")
	return e.JSON(statusCode, map[string]any{"error": message})
}

// ValidationToast surfaces the first blocking message as a warning toast and
// returns the full list in the body.
func ValidationToast(e *core.RequestEvent, statusCode int, errs []string) error {
	if len(errs) > 0 {
		setToast(e, toast{Message: errs[0], Type: "warning"})
	}
	e.Response.Header().Set("HX-Reswap", "none")
	return e.JSON(statusCode, map[string]any{"errors": errs})
}
