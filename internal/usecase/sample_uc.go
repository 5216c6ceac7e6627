package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soleindustrial/plm/internal/domain"
)

// SampleUC orquesta el ciclo de vida de muestras: registro, inspecciones y
// fichas técnicas. Cada operación aplica primero sobre el Workspace y recién
// después intenta persistir; un fallo de persistencia nunca revierte la
// mutación local, solo degrada el resultado.
type SampleUC struct {
	WS          *Workspace
	Samples     domain.SampleRepo
	Inspections domain.InspectionRepo
	Sheets      domain.SheetRepo
}

type RegisterSampleInput struct {
	Name        string   `json:"name"`
	ProviderID  string   `json:"providerId"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Images      []string `json:"images"`
}

const unknownProvider = "Unknown"

func (uc *SampleUC) Register(ctx context.Context, sess *domain.Session, in RegisterSampleInput) (*domain.Sample, Outcome, error) {
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionRegisterSample) {
		return nil, OutcomeRejected, fmt.Errorf("%w: register-sample", domain.ErrPermission)
	}
	name := strings.TrimSpace(in.Name)
	providerID := strings.TrimSpace(in.ProviderID)
	if name == "" || providerID == "" {
		return nil, OutcomeRejected, fmt.Errorf("%w: nombre y proveedor son obligatorios", domain.ErrValidation)
	}

	images := in.Images
	if images == nil {
		images = []string{}
	}

	ws := uc.WS
	ws.mu.Lock()
	providerName := unknownProvider
	for i := range ws.providers {
		if ws.providers[i].ID == providerID {
			providerName = ws.providers[i].Name
			break
		}
	}
	sample := domain.Sample{
		ID:               uuid.NewString(),
		SequentialID:     nextSequentialID(ws.samples),
		Name:             name,
		ProviderID:       providerID,
		ProviderName:     providerName,
		RegistrationDate: time.Now().Format(time.DateOnly),
		User:             sess.Name,
		Description:      strings.TrimSpace(in.Description),
		Category:         strings.TrimSpace(in.Category),
		Type:             strings.TrimSpace(in.Type),
		Status:           domain.StatusRegistered,
		Images:           images,
	}
	ws.samples = append([]domain.Sample{sample}, ws.samples...)
	ws.mu.Unlock()

	if err := uc.Samples.Insert(ctx, &sample); err != nil {
		log.Warn().Err(err).Str("sample", sample.SequentialID).Msg("muestra guardada solo localmente")
		return &sample, OutcomeDegraded, nil
	}
	return &sample, OutcomeSuccess, nil
}

func (uc *SampleUC) AddInspection(ctx context.Context, sess *domain.Session, sampleID, observations string, images []string, pdfURL string) (*domain.Inspection, Outcome, error) {
	if images == nil {
		images = []string{}
	}

	ws := uc.WS
	ws.mu.Lock()
	idx := sampleIndex(ws.samples, sampleID)
	if idx < 0 {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: muestra %s", domain.ErrNotFound, sampleID)
	}
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionAddInspection) {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: add-inspection", domain.ErrPermission)
	}

	inspection := domain.Inspection{
		ID:           uuid.NewString(),
		SampleID:     sampleID,
		Version:      domain.NextVersion(ws.inspections, sampleID),
		Date:         time.Now().Format(time.DateOnly),
		User:         sess.Name,
		Observations: observations,
		Images:       images,
		PDFUrl:       pdfURL,
	}
	// Alta de inspección y avance de estado en una sola sección crítica:
	// el llamador ve ambas mutaciones o ninguna.
	ws.inspections = append([]domain.Inspection{inspection}, ws.inspections...)
	ws.samples[idx].Status = domain.DeriveStatus(ws.samples[idx].Status, true, hasForSample(ws.sheets, sampleID))
	sample := ws.samples[idx]
	ws.mu.Unlock()

	outcome := OutcomeSuccess
	if err := uc.Inspections.Insert(ctx, &inspection); err != nil {
		log.Warn().Err(err).Str("sample", sampleID).Int("version", inspection.Version).Msg("inspección guardada solo localmente")
		outcome = OutcomeDegraded
	}
	if err := uc.Samples.Update(ctx, &sample); err != nil {
		log.Warn().Err(err).Str("sample", sampleID).Msg("estado de muestra no sincronizado")
		outcome = OutcomeDegraded
	}
	return &inspection, outcome, nil
}

func (uc *SampleUC) AddSheet(ctx context.Context, sess *domain.Session, sampleID, soleCode, observations, pdfURL string) (*domain.TechnicalSheet, Outcome, error) {
	ws := uc.WS
	ws.mu.Lock()
	idx := sampleIndex(ws.samples, sampleID)
	if idx < 0 {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: muestra %s", domain.ErrNotFound, sampleID)
	}
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionAddSheet) {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: add-sheet", domain.ErrPermission)
	}
	if strings.TrimSpace(soleCode) == "" {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: soleCode es obligatorio", domain.ErrValidation)
	}

	sheet := domain.TechnicalSheet{
		ID:           uuid.NewString(),
		SampleID:     sampleID,
		SoleCode:     strings.TrimSpace(soleCode),
		Version:      domain.NextVersion(ws.sheets, sampleID),
		Date:         time.Now().Format(time.DateOnly),
		User:         sess.Name,
		Observations: observations,
		PDFUrl:       pdfURL,
	}
	ws.sheets = append([]domain.TechnicalSheet{sheet}, ws.sheets...)
	ws.samples[idx].Status = domain.DeriveStatus(ws.samples[idx].Status, hasForSample(ws.inspections, sampleID), true)
	sample := ws.samples[idx]
	ws.mu.Unlock()

	outcome := OutcomeSuccess
	if err := uc.Sheets.Insert(ctx, &sheet); err != nil {
		log.Warn().Err(err).Str("sample", sampleID).Int("version", sheet.Version).Msg("ficha guardada solo localmente")
		outcome = OutcomeDegraded
	}
	if err := uc.Samples.Update(ctx, &sample); err != nil {
		log.Warn().Err(err).Str("sample", sampleID).Msg("estado de muestra no sincronizado")
		outcome = OutcomeDegraded
	}
	return &sheet, outcome, nil
}

func hasForSample[T domain.SampleScoped](records []T, sampleID string) bool {
	for _, r := range records {
		if r.SampleRef() == sampleID {
			return true
		}
	}
	return false
}

func sampleIndex(samples []domain.Sample, id string) int {
	for i := range samples {
		if samples[i].ID == id {
			return i
		}
	}
	return -1
}

// nextSequentialID asigna el código visible S-NNNN siguiente. Se deriva del
// conjunto local y nunca se reasigna; si el candidato ya existe (conjunto
// con huecos importado de otra fuente) se avanza hasta uno libre.
func nextSequentialID(samples []domain.Sample) string {
	n := len(samples) + 1
	for {
		candidate := fmt.Sprintf("S-%04d", n)
		taken := false
		for i := range samples {
			if samples[i].SequentialID == candidate {
				taken = true
				break
			}
		}
		if !taken {
			return candidate
		}
		n++
	}
}
