package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/soleindustrial/plm/internal/domain"
)

const issuer = "sole-plm"

// IssueToken firma un JWT con los datos de la sesión. El rol efectivo viaja
// en el token porque un admin puede estar operando con otra vista de rol.
func IssueToken(sess *domain.Session, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  sess.Email,
		"name": sess.Name,
		"role": string(sess.Role),
		"view": string(sess.EffectiveRole),
		"pic":  sess.AvatarURL,
		"iss":  issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken valida el JWT y reconstruye la sesión.
func ParseToken(tokenString string, secret []byte) (*domain.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, domain.ErrAuth
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrAuth
	}

	role, ok := domain.ParseRole(str(claims["role"]))
	if !ok {
		return nil, domain.ErrAuth
	}
	view, ok := domain.ParseRole(str(claims["view"]))
	if !ok {
		view = role
	}
	if role != domain.RoleAdmin {
		view = role
	}
	return &domain.Session{
		Name:          str(claims["name"]),
		Email:         str(claims["sub"]),
		Role:          role,
		EffectiveRole: view,
		AvatarURL:     str(claims["pic"]),
	}, nil
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
