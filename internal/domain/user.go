package domain

type Role string

const (
	RoleAdmin       Role = "admin"
	RoleSamples     Role = "samples_manager"
	RoleInspections Role = "inspections_manager"
	RoleSheets      Role = "sheets_manager"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleSamples, RoleInspections, RoleSheets:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:64"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	Role         Role   `json:"role" gorm:"type:varchar(30);not null"`
	AvatarURL    string `json:"avatarUrl,omitempty" gorm:"size:512"`
}

// Session es el operador autenticado. EffectiveRole permite que un admin
// cambie su vista de rol sin re-autenticarse; el rol real no cambia.
type Session struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	EffectiveRole Role   `json:"effectiveRole"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
}

func (s *Session) SwitchRole(r Role) bool {
	if s.Role != RoleAdmin {
		return false
	}
	if _, ok := ParseRole(string(r)); !ok {
		return false
	}
	s.EffectiveRole = r
	return true
}
