package domain

// SampleScoped es cualquier registro versionado que pertenece a una muestra
// (inspecciones y fichas técnicas).
type SampleScoped interface {
	SampleRef() string
}

// NextVersion devuelve el número de versión para el próximo registro de la
// muestra: cantidad de registros existentes + 1. Las versiones forman una
// secuencia contigua 1..N por muestra; no se reutilizan ni renumeran.
func NextVersion[T SampleScoped](records []T, sampleID string) int {
	n := 0
	for _, r := range records {
		if r.SampleRef() == sampleID {
			n++
		}
	}
	return n + 1
}

var statusRank = map[SampleStatus]int{
	StatusRegistered: 0,
	StatusInspection: 1,
	StatusTechnical:  2,
	StatusCompleted:  3,
}

// DeriveStatus devuelve el estado más alto alcanzado por la muestra. Nunca
// retrocede: si current ya está más adelante que lo que indican los eventos,
// se mantiene current. Completed es terminal y queda reservado para un
// disparador externo; nada en este núcleo lo asigna.
func DeriveStatus(current SampleStatus, hasInspection, hasSheet bool) SampleStatus {
	derived := StatusRegistered
	if hasInspection {
		derived = StatusInspection
	}
	if hasSheet {
		derived = StatusTechnical
	}
	if statusRank[derived] > statusRank[current] {
		return derived
	}
	return current
}
