package httpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/soleindustrial/plm/internal/adapters/export"
	"github.com/soleindustrial/plm/internal/adapters/identity"
	"github.com/soleindustrial/plm/internal/domain"
	"github.com/soleindustrial/plm/internal/usecase"
)

const tokenTTL = 12 * time.Hour

type Server struct {
	mux       *http.ServeMux
	ws        *usecase.Workspace
	samples   *usecase.SampleUC
	providers *usecase.ProviderUC
	users     *usecase.UserUC
	auth      *usecase.AuthUC
	storage   domain.FileStorage
	secret    []byte
	oauthCfg  *oauth2.Config
	ping      func(context.Context) error
}

func New(ws *usecase.Workspace, samples *usecase.SampleUC, providers *usecase.ProviderUC, users *usecase.UserUC, auth *usecase.AuthUC, storage domain.FileStorage, secret []byte, oauthCfg *oauth2.Config, ping func(context.Context) error) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		ws:        ws,
		samples:   samples,
		providers: providers,
		users:     users,
		auth:      auth,
		storage:   storage,
		secret:    secret,
		oauthCfg:  oauthCfg,
		ping:      ping,
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir("uploads"))))

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/login", s.handleLogin)
	s.mux.HandleFunc("/api/session/role", s.handleSwitchRole)

	s.mux.HandleFunc("/api/samples", s.handleSamples)
	s.mux.HandleFunc("/api/inspections", s.handleInspections)
	s.mux.HandleFunc("/api/sheets", s.handleSheets)
	s.mux.HandleFunc("/api/providers", s.handleProviders)
	s.mux.HandleFunc("/api/providers/", s.handleProviderByID)
	s.mux.HandleFunc("/api/users", s.handleUsers)
	s.mux.HandleFunc("/api/users/", s.handleUserByID)

	s.mux.HandleFunc("/api/upload-blob", s.handleUploadBlob)
	s.mux.HandleFunc("/api/export.xlsx", s.handleExport)

	if s.oauthCfg != nil {
		s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
		s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "online", "database": "connected"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
		return
	}
	sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondSession(w, sess)
}

// handleSwitchRole cambia la vista de rol de un admin sin re-autenticar.
func (s *Server) handleSwitchRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
		return
	}
	if !sess.SwitchRole(domain.Role(req.Role)) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "solo un admin puede cambiar de vista"})
		return
	}
	s.respondSession(w, sess)
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ws.Samples())
	case http.MethodPost:
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var in usecase.RegisterSampleInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
			return
		}
		sample, outcome, err := s.samples.Register(r.Context(), sess, in)
		respondOutcome(w, sample, outcome, err)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleInspections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ws.Inspections())
	case http.MethodPost:
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var in struct {
			SampleID     string   `json:"sampleId"`
			Observations string   `json:"observations"`
			Images       []string `json:"images"`
			PDFUrl       string   `json:"pdfUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
			return
		}
		inspection, outcome, err := s.samples.AddInspection(r.Context(), sess, in.SampleID, in.Observations, in.Images, in.PDFUrl)
		respondOutcome(w, inspection, outcome, err)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSheets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ws.Sheets())
	case http.MethodPost:
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var in struct {
			SampleID     string `json:"sampleId"`
			SoleCode     string `json:"soleCode"`
			Observations string `json:"observations"`
			PDFUrl       string `json:"pdfUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
			return
		}
		sheet, outcome, err := s.samples.AddSheet(r.Context(), sess, in.SampleID, in.SoleCode, in.Observations, in.PDFUrl)
		respondOutcome(w, sheet, outcome, err)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ws.Providers())
	case http.MethodPost:
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var p domain.Provider
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
			return
		}
		created, outcome, err := s.providers.Add(r.Context(), sess, p)
		respondOutcome(w, created, outcome, err)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleProviderByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/providers/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPut:
		var p domain.Provider
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
			return
		}
		p.ID = id
		updated, outcome, err := s.providers.Update(r.Context(), sess, p)
		respondOutcome(w, updated, outcome, err)
	case http.MethodDelete:
		// La confirmación del borde viaja como query param explícito.
		confirmed := r.URL.Query().Get("confirm") == "true"
		outcome, err := s.providers.Delete(r.Context(), sess, id, func() bool { return confirmed })
		respondOutcome(w, map[string]string{"id": id}, outcome, err)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.ws.Users())
	case http.MethodPost:
		sess, ok := s.requireSession(w, r)
		if !ok {
			return
		}
		var in usecase.AddUserInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
			return
		}
		user, outcome, err := s.users.Add(r.Context(), sess, in)
		respondOutcome(w, user, outcome, err)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	outcome, err := s.users.Delete(r.Context(), sess, id)
	respondOutcome(w, map[string]string{"id": id}, outcome, err)
}

func (s *Server) handleUploadBlob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := s.requireSession(w, r); !ok {
		return
	}
	var req struct {
		FileName    string `json:"fileName"`
		ContentType string `json:"contentType"`
		Base64Data  string `json:"base64Data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cuerpo inválido"})
		return
	}
	if req.FileName == "" || req.Base64Data == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "datos incompletos"})
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Base64Data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "base64 inválido"})
		return
	}
	url, err := s.storage.Store(r.Context(), data, req.FileName, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("file", req.FileName).Msg("subida de blob falló")
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "no se pudo subir el archivo"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireSession(w, r); !ok {
		return
	}
	f, err := export.Registry(s.ws.Samples(), s.ws.Inspections(), s.ws.Sheets())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no se pudo generar el reporte"})
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="registros.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("escritura del reporte falló")
	}
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   300,
	})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "state inválido"})
		return
	}
	token, err := s.oauthCfg.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "intercambio OAuth falló"})
		return
	}
	resp, err := s.oauthCfg.Client(r.Context(), token).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "no se pudo obtener el perfil"})
		return
	}
	defer resp.Body.Close()
	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "perfil inválido"})
		return
	}
	sess, err := s.auth.SessionByEmail(r.Context(), info.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondSession(w, sess)
}

func (s *Server) respondSession(w http.ResponseWriter, sess *domain.Session) {
	token, err := identity.IssueToken(sess, s.secret, tokenTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "no se pudo emitir el token"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"token": token, "session": sess})
}

func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (*domain.Session, bool) {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token requerido"})
		return nil, false
	}
	sess, err := identity.ParseToken(strings.TrimPrefix(raw, "Bearer "), s.secret)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token inválido"})
		return nil, false
	}
	return sess, true
}

func respondOutcome(w http.ResponseWriter, data interface{}, outcome usecase.Outcome, err error) {
	if outcome == usecase.OutcomeRejected {
		writeError(w, err)
		return
	}
	// Degraded responde 201 igual que Success: la operación quedó aplicada
	// localmente. El llamador distingue por el campo outcome.
	writeJSON(w, http.StatusCreated, map[string]interface{}{"outcome": string(outcome), "data": data})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errStatus(err), map[string]string{"error": err.Error()})
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
