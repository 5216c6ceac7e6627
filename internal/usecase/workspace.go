package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/soleindustrial/plm/internal/domain"
)

// Workspace es el conjunto de trabajo optimista en memoria. Solo los casos
// de uso lo mutan; cada operación aplica su mutación local antes de intentar
// persistir. Las lecturas devuelven copias.
type Workspace struct {
	mu          sync.RWMutex
	samples     []domain.Sample
	providers   []domain.Provider
	inspections []domain.Inspection
	sheets      []domain.TechnicalSheet
	users       []domain.User
}

func NewWorkspace() *Workspace { return &Workspace{} }

// Stores agrupa los colaboradores de persistencia que Refresh consulta.
type Stores struct {
	Samples     domain.SampleRepo
	Providers   domain.ProviderRepo
	Inspections domain.InspectionRepo
	Sheets      domain.SheetRepo
	Users       domain.UserRepo
	Cache       domain.SnapshotCache
}

// Refresh carga las cinco colecciones desde el record store. Si una
// colección no responde se consulta el snapshot cacheado (cache:<colección>);
// si tampoco hay cache se conserva el estado local actual. Devuelve true si
// alguna colección quedó degradada.
func (ws *Workspace) Refresh(ctx context.Context, st Stores) bool {
	degraded := false

	samples, ok := loadCollection(ctx, "samples", st.Samples.List, st.Cache)
	if ok {
		ws.mu.Lock()
		ws.samples = samples
		ws.mu.Unlock()
	} else {
		degraded = true
	}

	providers, ok := loadCollection(ctx, "providers", st.Providers.List, st.Cache)
	if ok {
		ws.mu.Lock()
		ws.providers = providers
		ws.mu.Unlock()
	} else {
		degraded = true
	}

	inspections, ok := loadCollection(ctx, "inspections", st.Inspections.List, st.Cache)
	if ok {
		ws.mu.Lock()
		ws.inspections = inspections
		ws.mu.Unlock()
	} else {
		degraded = true
	}

	sheets, ok := loadCollection(ctx, "sheets", st.Sheets.List, st.Cache)
	if ok {
		ws.mu.Lock()
		ws.sheets = sheets
		ws.mu.Unlock()
	} else {
		degraded = true
	}

	users, ok := loadCollection(ctx, "users", st.Users.List, st.Cache)
	if ok {
		ws.mu.Lock()
		ws.users = users
		ws.mu.Unlock()
	} else {
		degraded = true
	}

	return degraded
}

func loadCollection[T any](ctx context.Context, name string, list func(context.Context) ([]T, error), cache domain.SnapshotCache) ([]T, bool) {
	records, err := list(ctx)
	if err == nil {
		if cache != nil {
			if raw, merr := json.Marshal(records); merr == nil {
				if cerr := cache.Set(ctx, name, raw); cerr != nil {
					log.Debug().Err(cerr).Str("coleccion", name).Msg("no se pudo actualizar el snapshot")
				}
			}
		}
		return records, true
	}

	log.Warn().Err(err).Str("coleccion", name).Msg("store remoto no disponible, consultando snapshot")
	if cache != nil {
		if raw, cerr := cache.Get(ctx, name); cerr == nil {
			var cached []T
			if uerr := json.Unmarshal(raw, &cached); uerr == nil {
				return cached, true
			}
		}
	}
	return nil, false
}

func (ws *Workspace) Samples() []domain.Sample {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make([]domain.Sample, len(ws.samples))
	copy(out, ws.samples)
	return out
}

func (ws *Workspace) Providers() []domain.Provider {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make([]domain.Provider, len(ws.providers))
	copy(out, ws.providers)
	return out
}

func (ws *Workspace) Inspections() []domain.Inspection {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make([]domain.Inspection, len(ws.inspections))
	copy(out, ws.inspections)
	return out
}

func (ws *Workspace) Sheets() []domain.TechnicalSheet {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make([]domain.TechnicalSheet, len(ws.sheets))
	copy(out, ws.sheets)
	return out
}

func (ws *Workspace) Users() []domain.User {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	out := make([]domain.User, len(ws.users))
	copy(out, ws.users)
	return out
}

func (ws *Workspace) FindSample(id string) (*domain.Sample, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	for i := range ws.samples {
		if ws.samples[i].ID == id {
			s := ws.samples[i]
			return &s, true
		}
	}
	return nil, false
}
