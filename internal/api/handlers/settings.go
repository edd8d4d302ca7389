package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/echoscript/backend/internal/db"
)

// settingsKeys defines which keys are allowed and their display metadata.
// Provider credentials set here override the environment on the next restart.
var settingsKeys = []SettingDef{
	{Key: "openai_api_key", Label: "OpenAI API Key", Group: "transcription", Placeholder: "sk-...", Secret: true},
	{Key: "whisper_model", Label: "Whisper Model", Group: "transcription", Placeholder: "whisper-1", Secret: false},
}

type SettingDef struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Group       string `json:"group"`
	Placeholder string `json:"placeholder"`
	Secret      bool   `json:"secret"`
}

type SettingsHandler struct {
	database *db.Database
}

func NewSettingsHandler(database *db.Database) *SettingsHandler {
	return &SettingsHandler{database: database}
}

// GetSettings returns all settings (secrets are masked)
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.database.GetAllSettings()
	if err != nil {
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	type SettingResponse struct {
		SettingDef
		Value    string `json:"value"`
		HasValue bool   `json:"has_value"`
	}

	result := []SettingResponse{}
	for _, def := range settingsKeys {
		val := all[def.Key]
		masked := val
		hasValue := val != ""
		if def.Secret && hasValue {
			// Show only last 4 chars
			if len(val) > 4 {
				masked = "••••••••" + val[len(val)-4:]
			} else {
				masked = "••••••••"
			}
		}
		result = append(result, SettingResponse{
			SettingDef: def,
			Value:      masked,
			HasValue:   hasValue,
		})
	}

	jsonResponse(w, result, http.StatusOK)
}

// UpdateSettings saves settings from the request body
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	allowed := make(map[string]bool)
	for _, def := range settingsKeys {
		allowed[def.Key] = true
	}

	for key, value := range updates {
		if !allowed[key] {
			continue
		}
		// Skip masked values so a round-tripped form doesn't overwrite a
		// stored secret with its mask. Empty string is an explicit clear.
		if strings.HasPrefix(value, "••••••••") {
			continue
		}
		if err := h.database.SetSetting(key, value); err != nil {
			jsonError(w, "failed to save setting: "+key, http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
