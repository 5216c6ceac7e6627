package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/soleindustrial/plm/internal/domain"
)

type AuthUC struct {
	WS    *Workspace
	Users domain.UserRepo
}

// Login valida credenciales contra el record store. Si el store no responde
// se intenta contra el conjunto de usuarios en memoria (modo local); una
// credencial incorrecta nunca cae al modo local.
func (uc *AuthUC) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: faltan credenciales", domain.ErrValidation)
	}

	user, err := uc.Users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, domain.ErrAuth
		}
		return newSession(user), nil
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.ErrAuth
	}

	log.Warn().Err(err).Str("email", email).Msg("login remoto falló, verificando usuarios locales")
	ws := uc.WS
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	for i := range ws.users {
		if strings.EqualFold(ws.users[i].Email, email) {
			if bcrypt.CompareHashAndPassword([]byte(ws.users[i].PasswordHash), []byte(password)) != nil {
				return nil, domain.ErrAuth
			}
			log.Info().Str("email", email).Msg("acceso concedido en modo local")
			return newSession(&ws.users[i]), nil
		}
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}

// SessionByEmail reconstruye la sesión de un operador ya verificado por un
// proveedor de identidad externo (login OAuth). No valida contraseña.
func (uc *AuthUC) SessionByEmail(ctx context.Context, email string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email vacío", domain.ErrValidation)
	}
	user, err := uc.Users.FindByEmail(ctx, email)
	if err == nil {
		return newSession(user), nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrAuth
	}

	ws := uc.WS
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	for i := range ws.users {
		if strings.EqualFold(ws.users[i].Email, email) {
			return newSession(&ws.users[i]), nil
		}
	}
	return nil, domain.ErrAuth
}

func newSession(u *domain.User) *domain.Session {
	return &domain.Session{
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		EffectiveRole: u.Role,
		AvatarURL:     u.AvatarURL,
	}
}
