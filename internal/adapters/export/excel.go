package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/soleindustrial/plm/internal/domain"
)

// Registry arma el libro de registros de producción: una hoja de muestras
// con su última versión de inspección y ficha, y una hoja de fichas
// publicadas con su código sole.
func Registry(samples []domain.Sample, inspections []domain.Inspection, sheets []domain.TechnicalSheet) (*excelize.File, error) {
	f := excelize.NewFile()

	const muestras = "Muestras"
	if err := f.SetSheetName("Sheet1", muestras); err != nil {
		return nil, err
	}
	headers := []string{"ID", "Producto", "Fabricante", "Fecha", "Categoría", "Tipo", "Estado", "Inspecciones", "Fichas"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(muestras, cell, h); err != nil {
			return nil, err
		}
	}
	for row, s := range samples {
		values := []interface{}{
			s.SequentialID, s.Name, s.ProviderName, s.RegistrationDate,
			s.Category, s.Type, string(s.Status),
			countFor(inspections, s.ID), countFor(sheets, s.ID),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(muestras, cell, v); err != nil {
				return nil, err
			}
		}
	}

	const fichas = "Fichas Técnicas"
	if _, err := f.NewSheet(fichas); err != nil {
		return nil, err
	}
	sheetHeaders := []string{"Muestra", "Código Sole", "Versión", "Fecha", "Responsable", "Observaciones"}
	for col, h := range sheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(fichas, cell, h); err != nil {
			return nil, err
		}
	}
	bySample := make(map[string]string, len(samples))
	for _, s := range samples {
		bySample[s.ID] = s.SequentialID
	}
	for row, sh := range sheets {
		name := bySample[sh.SampleID]
		if name == "" {
			name = sh.SampleID
		}
		values := []interface{}{name, sh.SoleCode, fmt.Sprintf("V%d", sh.Version), sh.Date, sh.User, sh.Observations}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(fichas, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

func countFor[T domain.SampleScoped](records []T, sampleID string) int {
	n := 0
	for _, r := range records {
		if r.SampleRef() == sampleID {
			n++
		}
	}
	return n
}
