package domain

type Provider struct {
	ID        string `json:"id" gorm:"primaryKey;size:64"`
	Name      string `json:"name" gorm:"size:255;not null"`
	ShortName string `json:"shortName" gorm:"size:100"`
	Code      string `json:"code" gorm:"uniqueIndex;size:50"`
	Country   string `json:"country" gorm:"size:100"`
	LogoURL   string `json:"logoUrl,omitempty" gorm:"size:512"`
}
