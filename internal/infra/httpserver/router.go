package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	appaccount "github.com/healtrack/healtrack-api/internal/application/account"
	appcare "github.com/healtrack/healtrack-api/internal/application/care"
	appexport "github.com/healtrack/healtrack-api/internal/application/export"
	appinsights "github.com/healtrack/healtrack-api/internal/application/insights"
	appprofile "github.com/healtrack/healtrack-api/internal/application/profile"
	appreports "github.com/healtrack/healtrack-api/internal/application/reports"
	apptracking "github.com/healtrack/healtrack-api/internal/application/tracking"
	"github.com/healtrack/healtrack-api/internal/domain/analysis"
	"github.com/healtrack/healtrack-api/internal/domain/care"
	domain "github.com/healtrack/healtrack-api/internal/domain/reports"
	"github.com/healtrack/healtrack-api/internal/middleware"
)

type Router struct {
	reportsSvc  *appreports.Service
	insightsSvc *appinsights.Service
	exportSvc   *appexport.Service
	accountSvc  *appaccount.Service
	careSvc     *appcare.Service
	profileSvc  *appprofile.Service
	trackingSvc *apptracking.Service
}

func NewRouter(
	reportsSvc *appreports.Service,
	insightsSvc *appinsights.Service,
	exportSvc *appexport.Service,
	accountSvc *appaccount.Service,
	careSvc *appcare.Service,
	profileSvc *appprofile.Service,
	trackingSvc *apptracking.Service,
) http.Handler {
	r := &Router{
		reportsSvc:  reportsSvc,
		insightsSvc: insightsSvc,
		exportSvc:   exportSvc,
		accountSvc:  accountSvc,
		careSvc:     careSvc,
		profileSvc:  profileSvc,
		trackingSvc: trackingSvc,
	}
	mux := chi.NewRouter()

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/reports/upload", r.wrap(r.handleUpload))
		rt.Post("/reports/{reportID}/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/reports", r.wrap(r.handleListReports))
		rt.Get("/medications", r.wrap(r.handleListMedications))
		rt.Post("/medications", r.wrap(r.handleAddMedication))
		rt.Get("/appointments", r.wrap(r.handleListAppointments))
		rt.Post("/appointments", r.wrap(r.handleAddAppointment))
		rt.Get("/insight", r.wrap(r.handleInsight))
		rt.Post("/export/generate", r.wrap(r.handleExport))
		rt.Post("/share/create", r.wrap(r.handleCreateShare))
		rt.Put("/notifications/preferences", r.wrap(r.handleNotificationPreferences))
		rt.Post("/tracking/activity", r.wrap(r.handleTrackActivity))
		rt.Delete("/account", r.wrap(r.handleDeleteAccount))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, care.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, domain.ErrNotFound), errors.Is(err, sql.ErrNoRows):
				http.Error(w, "report not found", http.StatusNotFound)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		}
	}
}

// userID pulls the authenticated user set by the auth middleware.
func userID(req *http.Request) (string, error) {
	uid := middleware.GetUserFromContext(req.Context())
	if uid == "" {
		return "", errors.New("no authenticated user in request context")
	}
	return uid, nil
}

// POST /v1/reports/upload (multipart form, field "file")
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	req.Body = http.MaxBytesReader(w, req.Body, domain.MaxUploadBytes+1024)
	file, header, err := req.FormFile("file")
	if err != nil {
		http.Error(w, "no file provided", http.StatusBadRequest)
		return nil
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "reading file upload", http.StatusBadRequest)
		return nil
	}

	result, err := r.reportsSvc.Upload(req.Context(), appreports.UploadCommand{
		UserID:   uid,
		FileName: middleware.SanitizeString(header.Filename),
		MimeType: header.Header.Get("Content-Type"),
		Content:  content,
	})
	if err != nil {
		return err
	}
	middleware.IncrementUploads()

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"reportId":         result.ReportID,
		"fileName":         result.FileName,
		"status":           result.Status,
		"hasExtractedText": result.HasExtractedText,
		"message":          "File uploaded successfully",
	})
}

// POST /v1/reports/{reportID}/analyze
// Optional body: {"document_type": "lab_report"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}
	reportID := chi.URLParam(req, "reportID")
	if err := middleware.ValidateReportID(reportID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	var body struct {
		DocumentType string `json:"document_type"`
	}
	// Body is optional; ignore decode errors on an empty body.
	_ = json.NewDecoder(req.Body).Decode(&body)

	result, err := r.reportsSvc.Analyze(req.Context(), uid, domain.ReportID(reportID), body.DocumentType)
	if err != nil {
		return err
	}
	middleware.IncrementAnalyses()
	if result.Source == analysis.SourceFallback {
		middleware.IncrementFallbacks()
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"analysis": result,
		"message":  "Report analyzed successfully",
	})
}

// GET /v1/reports
func (r *Router) handleListReports(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	list, err := r.reportsSvc.List(req.Context(), uid)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Report{}
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"reports": list})
}

// GET /v1/insight
func (r *Router) handleInsight(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	insight := r.insightsSvc.Generate(req.Context(), uid)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"insight": insight})
}

// POST /v1/export/generate
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	settings := appexport.DefaultSettings()
	_ = json.NewDecoder(req.Body).Decode(&settings)

	doc, err := r.exportSvc.Generate(req.Context(), uid, settings)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(doc)
}

// GET /v1/medications
func (r *Router) handleListMedications(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	sched, err := r.careSvc.ListMedications(req.Context(), uid)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(sched)
}

// POST /v1/medications
func (r *Router) handleAddMedication(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	var in appcare.MedicationInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		http.Error(w, "invalid medication payload", http.StatusBadRequest)
		return nil
	}

	med, err := r.careSvc.AddMedication(req.Context(), uid, in)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"medication": med,
		"message":    "Medication added successfully",
	})
}

// GET /v1/appointments
func (r *Router) handleListAppointments(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	book, err := r.careSvc.ListAppointments(req.Context(), uid)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(book)
}

// POST /v1/appointments
func (r *Router) handleAddAppointment(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	var in appcare.AppointmentInput
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		http.Error(w, "invalid appointment payload", http.StatusBadRequest)
		return nil
	}

	appt, err := r.careSvc.AddAppointment(req.Context(), uid, in)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"appointment": appt,
		"message":     "Appointment added successfully",
	})
}

// POST /v1/share/create
func (r *Router) handleCreateShare(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	payload := map[string]any{}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid share payload", http.StatusBadRequest)
		return nil
	}

	shareID, err := r.profileSvc.CreateShare(req.Context(), uid, payload)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"shareId": shareID,
		"message": "Shareable link created successfully",
	})
}

// PUT /v1/notifications/preferences
func (r *Router) handleNotificationPreferences(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	patch := map[string]any{}
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid preferences payload", http.StatusBadRequest)
		return nil
	}

	prefs, err := r.profileSvc.UpdateNotificationPreferences(req.Context(), uid, patch)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"preferences": prefs,
		"message":     "Notification preferences updated successfully",
	})
}

// POST /v1/tracking/activity
func (r *Router) handleTrackActivity(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	data := map[string]any{}
	if err := json.NewDecoder(req.Body).Decode(&data); err != nil {
		http.Error(w, "invalid activity payload", http.StatusBadRequest)
		return nil
	}

	date, err := r.trackingSvc.Record(req.Context(), uid, data)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"date":    date,
		"message": "Activity data saved successfully",
	})
}

// DELETE /v1/account
func (r *Router) handleDeleteAccount(w http.ResponseWriter, req *http.Request) error {
	uid, err := userID(req)
	if err != nil {
		return err
	}

	steps, err := r.accountSvc.DeleteUserData(req.Context(), uid)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"success":     true,
		"message":     "Account data deleted successfully",
		"deletedData": steps,
		"userId":      uid,
	})
}
