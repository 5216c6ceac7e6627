package usecase

// Outcome es el resultado de tres vías de cada caso de uso. Degraded no es
// un error: la mutación local quedó aplicada pero la persistencia remota
// falló, y el llamador debe mostrarlo distinto de Success.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeDegraded Outcome = "degraded"
	OutcomeRejected Outcome = "rejected"
)
