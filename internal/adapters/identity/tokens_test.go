package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/soleindustrial/plm/internal/domain"
)

var testSecret = []byte("secreto-de-prueba")

func TestTokenRoundTrip(t *testing.T) {
	sess := &domain.Session{
		Name:          "Administrador",
		Email:         "admin@sole.com.pe",
		Role:          domain.RoleAdmin,
		EffectiveRole: domain.RoleSheets,
		AvatarURL:     "https://example.com/a.png",
	}
	token, err := IssueToken(sess, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	got, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if got.Email != sess.Email || got.Name != sess.Name || got.AvatarURL != sess.AvatarURL {
		t.Fatalf("sesión reconstruida = %#v", got)
	}
	// Un admin conserva la vista de rol que traía el token.
	if got.Role != domain.RoleAdmin || got.EffectiveRole != domain.RoleSheets {
		t.Fatalf("rol = %s, vista = %s", got.Role, got.EffectiveRole)
	}
}

func TestTokenViewCoercedForNonAdmin(t *testing.T) {
	sess := &domain.Session{
		Name:          "Juan Sanchez",
		Email:         "juan@sole.com.pe",
		Role:          domain.RoleSamples,
		EffectiveRole: domain.RoleAdmin,
	}
	token, err := IssueToken(sess, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if got.EffectiveRole != domain.RoleSamples {
		t.Fatalf("vista = %s, un no-admin no puede escalar", got.EffectiveRole)
	}
}

func TestTokenRejections(t *testing.T) {
	sess := &domain.Session{Name: "Ana", Email: "ana@sole.com.pe", Role: domain.RoleInspections, EffectiveRole: domain.RoleInspections}

	token, err := IssueToken(sess, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token, []byte("otro-secreto")); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("secreto incorrecto: %v", err)
	}
	if _, err := ParseToken("no-es-un-jwt", testSecret); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("token malformado: %v", err)
	}

	expired, err := IssueToken(sess, testSecret, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(expired, testSecret); !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("token vencido: %v", err)
	}
}
