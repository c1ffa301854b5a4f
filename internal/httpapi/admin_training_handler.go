package httpapi

import (
	"mime/multipart"
	"net/http"

	"finetune_admin/internal/finetune"
	"finetune_admin/internal/trainingset"
	"finetune_admin/internal/utils"
)

// AdminTrainingHandler ingests CSV uploads and builds training sets
type AdminTrainingHandler struct {
	service       *finetune.Service
	maxUploadSize int64
}

// NewAdminTrainingHandler creates a new admin training handler
func NewAdminTrainingHandler(service *finetune.Service, maxUploadSize int64) *AdminTrainingHandler {
	return &AdminTrainingHandler{service: service, maxUploadSize: maxUploadSize}
}

// SendersResponse lists the distinct senders found in the uploads along with
// their first-name groups. Warnings carry per-file parse failures.
type SendersResponse struct {
	Senders  []string      `json:"senders"`
	Groups   []SenderGroup `json:"groups"`
	RowCount int           `json:"row_count"`
	Warnings []string      `json:"warnings,omitempty"`
}

// SenderGroup is one first-name group with its selectable label
type SenderGroup struct {
	Key     string   `json:"key"`
	Members []string `json:"members"`
	Display string   `json:"display"`
}

// BuildResponse reports the outcome of a training-set build
type BuildResponse struct {
	Examples   int      `json:"examples"`
	OutputFile string   `json:"output_file"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Senders handles POST /admin/training/senders. CSV files are uploaded as
// multipart parts named "files".
func (h *AdminTrainingHandler) Senders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	files, cleanup, ok := h.openUploads(w, r)
	if !ok {
		return
	}
	defer cleanup()

	rows, parseErrs := trainingset.ExtractRows(files)
	senders := trainingset.DistinctSenders(rows)
	groups := trainingset.GroupByFirstToken(senders)

	response := SendersResponse{
		Senders:  senders,
		Groups:   make([]SenderGroup, 0, len(groups)),
		RowCount: len(rows),
		Warnings: errorStrings(parseErrs),
	}
	for _, g := range groups {
		response.Groups = append(response.Groups, SenderGroup{
			Key:     g.Key,
			Members: g.Members,
			Display: g.Display(),
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Build handles POST /admin/training/build. Besides the "files" parts the
// form carries repeated "senders" values (full sender strings or group
// labels) and an optional "system_prompt".
func (h *AdminTrainingHandler) Build(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	files, cleanup, ok := h.openUploads(w, r)
	if !ok {
		return
	}
	defer cleanup()

	selected := r.MultipartForm.Value["senders"]
	if len(selected) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Pick at least one sender")
		return
	}
	systemPrompt := r.FormValue("system_prompt")

	rows, parseErrs := trainingset.ExtractRows(files)

	// Selections may be group labels; expand them to full sender values.
	groups := trainingset.GroupByFirstToken(trainingset.DistinctSenders(rows))
	selected = trainingset.ExpandSelection(groups, selected)

	count, err := trainingset.BuildFile(h.service.OutputPath(), rows, selected, systemPrompt)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to write training set: "+err.Error())
		return
	}

	warnings := errorStrings(parseErrs)
	if count == 0 {
		warnings = append(warnings, "No rows found for those senders.")
	}

	utils.RespondWithJSON(w, http.StatusOK, BuildResponse{
		Examples:   count,
		OutputFile: h.service.OutputPath(),
		Warnings:   warnings,
	})
}

// openUploads parses the multipart form and opens every "files" part. The
// returned cleanup closes them all.
func (h *AdminTrainingHandler) openUploads(w http.ResponseWriter, r *http.Request) ([]trainingset.NamedReader, func(), bool) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return nil, nil, false
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "At least one CSV file is required")
		return nil, nil, false
	}

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	inputs := make([]trainingset.NamedReader, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			cleanup()
			utils.RespondWithError(w, http.StatusBadRequest, "Could not open upload "+header.Filename+": "+err.Error())
			return nil, nil, false
		}
		opened = append(opened, f)
		inputs = append(inputs, trainingset.NamedReader{Name: header.Filename, Reader: f})
	}

	return inputs, cleanup, true
}

func errorStrings(errs []error) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}
