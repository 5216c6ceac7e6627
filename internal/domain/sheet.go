package domain

type TechnicalSheet struct {
	ID           string `json:"id" gorm:"primaryKey;size:64"`
	SampleID     string `json:"sampleId" gorm:"size:64;not null;index"`
	SoleCode     string `json:"soleCode" gorm:"size:100"`
	Version      int    `json:"version" gorm:"not null"`
	Date         string `json:"date" gorm:"size:10"`
	User         string `json:"user" gorm:"size:255;column:user_name"`
	Observations string `json:"observations" gorm:"type:text"`
	PDFUrl       string `json:"pdfUrl,omitempty" gorm:"size:512"`
}

func (s TechnicalSheet) SampleRef() string { return s.SampleID }
