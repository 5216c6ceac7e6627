package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/soleindustrial/plm/internal/domain"
)

type ProviderUC struct {
	WS        *Workspace
	Providers domain.ProviderRepo
}

func (uc *ProviderUC) Add(ctx context.Context, sess *domain.Session, p domain.Provider) (*domain.Provider, Outcome, error) {
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionManageProviders) {
		return nil, OutcomeRejected, fmt.Errorf("%w: manage-providers", domain.ErrPermission)
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.TrimSpace(p.Code)
	if p.Name == "" || p.Code == "" {
		return nil, OutcomeRejected, fmt.Errorf("%w: nombre y código son obligatorios", domain.ErrValidation)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	ws := uc.WS
	ws.mu.Lock()
	if codeTaken(ws.providers, p.Code, p.ID) {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: código %s", domain.ErrConflict, p.Code)
	}
	ws.providers = append([]domain.Provider{p}, ws.providers...)
	ws.mu.Unlock()

	if err := uc.Providers.Insert(ctx, &p); err != nil {
		log.Warn().Err(err).Str("proveedor", p.Code).Msg("proveedor guardado solo localmente")
		return &p, OutcomeDegraded, nil
	}
	return &p, OutcomeSuccess, nil
}

// Update modifica el registro maestro. Las muestras existentes conservan el
// snapshot providerName tomado al registrarse; un rename acá no las toca.
func (uc *ProviderUC) Update(ctx context.Context, sess *domain.Session, p domain.Provider) (*domain.Provider, Outcome, error) {
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionManageProviders) {
		return nil, OutcomeRejected, fmt.Errorf("%w: manage-providers", domain.ErrPermission)
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Code = strings.TrimSpace(p.Code)
	if p.Name == "" || p.Code == "" {
		return nil, OutcomeRejected, fmt.Errorf("%w: nombre y código son obligatorios", domain.ErrValidation)
	}

	ws := uc.WS
	ws.mu.Lock()
	idx := -1
	for i := range ws.providers {
		if ws.providers[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, p.ID)
	}
	if codeTaken(ws.providers, p.Code, p.ID) {
		ws.mu.Unlock()
		return nil, OutcomeRejected, fmt.Errorf("%w: código %s", domain.ErrConflict, p.Code)
	}
	ws.providers[idx] = p
	ws.mu.Unlock()

	if err := uc.Providers.Update(ctx, &p); err != nil {
		log.Warn().Err(err).Str("proveedor", p.Code).Msg("proveedor actualizado solo localmente")
		return &p, OutcomeDegraded, nil
	}
	return &p, OutcomeSuccess, nil
}

// Delete exige confirmación explícita del borde que lo invoca. El borrado
// remoto puede fallar sin revertir el local: se informa Degraded.
func (uc *ProviderUC) Delete(ctx context.Context, sess *domain.Session, id string, confirm func() bool) (Outcome, error) {
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionManageProviders) {
		return OutcomeRejected, fmt.Errorf("%w: manage-providers", domain.ErrPermission)
	}
	if confirm == nil || !confirm() {
		return OutcomeRejected, fmt.Errorf("%w: eliminación no confirmada", domain.ErrValidation)
	}

	ws := uc.WS
	ws.mu.Lock()
	idx := -1
	for i := range ws.providers {
		if ws.providers[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		ws.mu.Unlock()
		return OutcomeRejected, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	ws.providers = append(ws.providers[:idx], ws.providers[idx+1:]...)
	ws.mu.Unlock()

	if err := uc.Providers.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("proveedor", id).Msg("borrado remoto falló, eliminado solo localmente")
		return OutcomeDegraded, nil
	}
	return OutcomeSuccess, nil
}

func codeTaken(providers []domain.Provider, code, excludeID string) bool {
	for i := range providers {
		if providers[i].ID != excludeID && strings.EqualFold(providers[i].Code, code) {
			return true
		}
	}
	return false
}
