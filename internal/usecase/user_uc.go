package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/soleindustrial/plm/internal/domain"
)

type UserUC struct {
	WS    *Workspace
	Users domain.UserRepo
}

type AddUserInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl"`
}

func (uc *UserUC) Add(ctx context.Context, sess *domain.Session, in AddUserInput) (*domain.User, Outcome, error) {
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionManageUsers) {
		return nil, OutcomeRejected, fmt.Errorf("%w: manage-users", domain.ErrPermission)
	}
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" || email == "" || in.Password == "" {
		return nil, OutcomeRejected, fmt.Errorf("%w: nombre, email y contraseña son obligatorios", domain.ErrValidation)
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, OutcomeRejected, fmt.Errorf("%w: rol desconocido %q", domain.ErrValidation, in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, OutcomeRejected, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		AvatarURL:    strings.TrimSpace(in.AvatarURL),
	}

	ws := uc.WS
	ws.mu.Lock()
	ws.users = append([]domain.User{user}, ws.users...)
	ws.mu.Unlock()

	if err := uc.Users.Insert(ctx, &user); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("usuario guardado solo localmente")
		return &user, OutcomeDegraded, nil
	}
	return &user, OutcomeSuccess, nil
}

func (uc *UserUC) Delete(ctx context.Context, sess *domain.Session, id string) (Outcome, error) {
	if sess == nil || !domain.Can(sess.EffectiveRole, domain.ActionManageUsers) {
		return OutcomeRejected, fmt.Errorf("%w: manage-users", domain.ErrPermission)
	}

	ws := uc.WS
	ws.mu.Lock()
	idx := -1
	for i := range ws.users {
		if ws.users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		ws.mu.Unlock()
		return OutcomeRejected, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	ws.users = append(ws.users[:idx], ws.users[idx+1:]...)
	ws.mu.Unlock()

	if err := uc.Users.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("usuario", id).Msg("borrado remoto falló, eliminado solo localmente")
		return OutcomeDegraded, nil
	}
	return OutcomeSuccess, nil
}
