package domain

type SampleStatus string

const (
	StatusRegistered SampleStatus = "registered"
	StatusInspection SampleStatus = "inspection"
	StatusTechnical  SampleStatus = "technical"
	StatusCompleted  SampleStatus = "completed"
)

type Sample struct {
	ID               string       `json:"id" gorm:"primaryKey;size:64"`
	SequentialID     string       `json:"sequentialId" gorm:"uniqueIndex;size:50"`
	Name             string       `json:"name" gorm:"size:255;not null"`
	ProviderID       string       `json:"providerId" gorm:"size:64;index"`
	ProviderName     string       `json:"providerName" gorm:"size:255"`
	RegistrationDate string       `json:"registrationDate" gorm:"size:10"`
	User             string       `json:"user" gorm:"size:100;column:user_name"`
	Description      string       `json:"description" gorm:"type:text"`
	Category         string       `json:"category" gorm:"size:100"`
	Type             string       `json:"type" gorm:"size:100"`
	Status           SampleStatus `json:"status" gorm:"type:varchar(30);index"`
	Images           []string     `json:"images" gorm:"type:jsonb;serializer:json"`
}
