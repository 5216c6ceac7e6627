package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/soleindustrial/plm/internal/domain"
)

func newSampleUC() (*SampleUC, *fakeSampleRepo, *fakeInspectionRepo, *fakeSheetRepo) {
	samples := &fakeSampleRepo{}
	inspections := &fakeInspectionRepo{}
	sheets := &fakeSheetRepo{}
	ws := NewWorkspace()
	ws.providers = []domain.Provider{
		{ID: "p1", Name: "TermoHogar Solutions S.A.", Code: "PRV-ESP-001"},
	}
	uc := &SampleUC{WS: ws, Samples: samples, Inspections: inspections, Sheets: sheets}
	return uc, samples, inspections, sheets
}

func TestSampleLifecycle(t *testing.T) {
	ctx := context.Background()
	uc, samples, _, _ := newSampleUC()

	sample, outcome, err := uc.Register(ctx, sessionFor(domain.RoleSamples), RegisterSampleInput{
		Name:       "Hervidor eléctrico 1.7L",
		ProviderID: "p1",
		Category:   "Cocina",
		Type:       "Hervidor",
	})
	if err != nil || outcome != OutcomeSuccess {
		t.Fatalf("Register: outcome = %s, err = %v", outcome, err)
	}
	if sample.Status != domain.StatusRegistered {
		t.Fatalf("estado inicial = %s", sample.Status)
	}
	if sample.SequentialID != "S-0001" {
		t.Fatalf("código secuencial = %s", sample.SequentialID)
	}
	if sample.ProviderName != "TermoHogar Solutions S.A." {
		t.Fatalf("providerName = %s", sample.ProviderName)
	}
	if sample.Images == nil || len(sample.Images) != 0 {
		t.Fatalf("imágenes = %#v, esperaba lista vacía", sample.Images)
	}
	if samples.inserted != 1 {
		t.Fatalf("inserciones remotas = %d", samples.inserted)
	}

	// Primera inspección: versión 1, el estado avanza.
	insp, outcome, err := uc.AddInspection(ctx, sessionFor(domain.RoleInspections), sample.ID, "sin observaciones", nil, "")
	if err != nil || outcome != OutcomeSuccess {
		t.Fatalf("AddInspection: outcome = %s, err = %v", outcome, err)
	}
	if insp.Version != 1 {
		t.Fatalf("versión de inspección = %d", insp.Version)
	}
	if got, _ := uc.WS.FindSample(sample.ID); got.Status != domain.StatusInspection {
		t.Fatalf("estado tras inspección = %s", got.Status)
	}

	// Primera ficha: versión 1 con contador propio, el estado avanza.
	sheet, outcome, err := uc.AddSheet(ctx, sessionFor(domain.RoleSheets), sample.ID, "SOLE-HE-001", "", "")
	if err != nil || outcome != OutcomeSuccess {
		t.Fatalf("AddSheet: outcome = %s, err = %v", outcome, err)
	}
	if sheet.Version != 1 {
		t.Fatalf("versión de ficha = %d", sheet.Version)
	}
	if got, _ := uc.WS.FindSample(sample.ID); got.Status != domain.StatusTechnical {
		t.Fatalf("estado tras ficha = %s", got.Status)
	}

	// Segunda inspección: versión 2, el estado no retrocede.
	insp2, _, err := uc.AddInspection(ctx, sessionFor(domain.RoleInspections), sample.ID, "reinspección", nil, "")
	if err != nil {
		t.Fatalf("segunda inspección: %v", err)
	}
	if insp2.Version != 2 {
		t.Fatalf("versión de segunda inspección = %d", insp2.Version)
	}
	if got, _ := uc.WS.FindSample(sample.ID); got.Status != domain.StatusTechnical {
		t.Fatalf("el estado retrocedió a %s", got.Status)
	}
}

func TestRegisterPermissionAndValidation(t *testing.T) {
	ctx := context.Background()
	uc, samples, _, _ := newSampleUC()

	_, outcome, err := uc.Register(ctx, sessionFor(domain.RoleInspections), RegisterSampleInput{Name: "x", ProviderID: "p1"})
	if outcome != OutcomeRejected || !errors.Is(err, domain.ErrPermission) {
		t.Fatalf("rol sin permiso: outcome = %s, err = %v", outcome, err)
	}
	_, outcome, err = uc.Register(ctx, nil, RegisterSampleInput{Name: "x", ProviderID: "p1"})
	if outcome != OutcomeRejected || !errors.Is(err, domain.ErrPermission) {
		t.Fatalf("sin sesión: outcome = %s, err = %v", outcome, err)
	}
	_, outcome, err = uc.Register(ctx, sessionFor(domain.RoleSamples), RegisterSampleInput{Name: "  ", ProviderID: "p1"})
	if outcome != OutcomeRejected || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("nombre vacío: outcome = %s, err = %v", outcome, err)
	}
	if len(uc.WS.Samples()) != 0 || samples.inserted != 0 {
		t.Fatal("un rechazo no debe mutar el conjunto local ni tocar el store")
	}
}

func TestRegisterUnknownProvider(t *testing.T) {
	uc, _, _, _ := newSampleUC()
	sample, outcome, err := uc.Register(context.Background(), sessionFor(domain.RoleAdmin), RegisterSampleInput{
		Name:       "Plancha a vapor",
		ProviderID: "p-borrado",
	})
	if err != nil || outcome != OutcomeSuccess {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if sample.ProviderName != "Unknown" {
		t.Fatalf("providerName = %s, esperaba Unknown", sample.ProviderName)
	}
}

func TestRegisterDegradedKeepsLocal(t *testing.T) {
	uc, samples, _, _ := newSampleUC()
	samples.failAll = true

	sample, outcome, err := uc.Register(context.Background(), sessionFor(domain.RoleSamples), RegisterSampleInput{
		Name:       "Ventilador de torre",
		ProviderID: "p1",
	})
	if err != nil {
		t.Fatalf("degradado no es error: %v", err)
	}
	if outcome != OutcomeDegraded {
		t.Fatalf("outcome = %s, esperaba degraded", outcome)
	}
	if got, ok := uc.WS.FindSample(sample.ID); !ok || got.Name != "Ventilador de torre" {
		t.Fatal("la mutación local debe sobrevivir al fallo remoto")
	}
}

func TestAddInspectionUnknownSample(t *testing.T) {
	uc, _, inspections, _ := newSampleUC()
	_, outcome, err := uc.AddInspection(context.Background(), sessionFor(domain.RoleInspections), "no-existe", "", nil, "")
	if outcome != OutcomeRejected || !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if len(uc.WS.Inspections()) != 0 || len(inspections.records) != 0 {
		t.Fatal("una muestra inexistente no debe generar inspecciones")
	}
}

func TestAddInspectionPermissionConsumesNoVersion(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newSampleUC()
	sample, _, _ := uc.Register(ctx, sessionFor(domain.RoleSamples), RegisterSampleInput{Name: "Licuadora", ProviderID: "p1"})

	_, outcome, err := uc.AddInspection(ctx, sessionFor(domain.RoleSheets), sample.ID, "", nil, "")
	if outcome != OutcomeRejected || !errors.Is(err, domain.ErrPermission) {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if got, _ := uc.WS.FindSample(sample.ID); got.Status != domain.StatusRegistered {
		t.Fatalf("un rechazo no debe avanzar el estado: %s", got.Status)
	}

	// El siguiente intento autorizado obtiene la versión 1.
	insp, _, err := uc.AddInspection(ctx, sessionFor(domain.RoleInspections), sample.ID, "", nil, "")
	if err != nil || insp.Version != 1 {
		t.Fatalf("versión = %d, err = %v", insp.Version, err)
	}
}

func TestAddSheetPermissionConsumesNoVersion(t *testing.T) {
	ctx := context.Background()
	uc, _, _, sheets := newSampleUC()
	sample, _, _ := uc.Register(ctx, sessionFor(domain.RoleSamples), RegisterSampleInput{Name: "Batidora", ProviderID: "p1"})

	_, outcome, err := uc.AddSheet(ctx, sessionFor(domain.RoleInspections), sample.ID, "SOLE-BA-001", "", "")
	if outcome != OutcomeRejected || !errors.Is(err, domain.ErrPermission) {
		t.Fatalf("outcome = %s, err = %v", outcome, err)
	}
	if len(uc.WS.Sheets()) != 0 || len(sheets.records) != 0 {
		t.Fatal("un rechazo no debe crear fichas")
	}

	sheet, _, err := uc.AddSheet(ctx, sessionFor(domain.RoleSheets), sample.ID, "SOLE-BA-001", "", "")
	if err != nil || sheet.Version != 1 {
		t.Fatalf("versión = %d, err = %v", sheet.Version, err)
	}
}

func TestAddSheetValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _, sheets := newSampleUC()
	sample, _, _ := uc.Register(ctx, sessionFor(domain.RoleSamples), RegisterSampleInput{Name: "Horno", ProviderID: "p1"})

	_, outcome, err := uc.AddSheet(ctx, sessionFor(domain.RoleSheets), sample.ID, "   ", "", "")
	if outcome != OutcomeRejected || !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("soleCode vacío: outcome = %s, err = %v", outcome, err)
	}
	if len(uc.WS.Sheets()) != 0 || len(sheets.records) != 0 {
		t.Fatal("un rechazo no debe crear fichas")
	}
}

func TestAddInspectionDegraded(t *testing.T) {
	ctx := context.Background()
	uc, _, inspections, _ := newSampleUC()
	sample, _, _ := uc.Register(ctx, sessionFor(domain.RoleSamples), RegisterSampleInput{Name: "Freidora", ProviderID: "p1"})

	inspections.failAll = true
	insp, outcome, err := uc.AddInspection(ctx, sessionFor(domain.RoleInspections), sample.ID, "", nil, "")
	if err != nil {
		t.Fatalf("degradado no es error: %v", err)
	}
	if outcome != OutcomeDegraded {
		t.Fatalf("outcome = %s", outcome)
	}
	if len(uc.WS.Inspections()) != 1 || insp.Version != 1 {
		t.Fatal("la inspección debe quedar visible localmente")
	}
	if got, _ := uc.WS.FindSample(sample.ID); got.Status != domain.StatusInspection {
		t.Fatalf("estado local = %s", got.Status)
	}
}

func TestNextSequentialIDSkipsTaken(t *testing.T) {
	samples := []domain.Sample{
		{ID: "a", SequentialID: "S-0002"},
		{ID: "b", SequentialID: "S-0003"},
	}
	if got := nextSequentialID(samples); got != "S-0004" {
		t.Fatalf("nextSequentialID = %s", got)
	}
}
