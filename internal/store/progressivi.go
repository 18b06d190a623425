package store

import (
	"fmt"
	"sync"
	"time"
)

// ProgressiviStore assegna i numeri dei documenti di trasporto: una sequenza
// per anno, persistita come mappa JSON {"<anno a 2 cifre>": <ultimo numero>}.
// Al cambio anno la chiave nuova riparte implicitamente da 1.
//
// Next va invocato una sola volta per emissione effettiva, mai in anteprima:
// ogni chiamata brucia un numero. Il read-increment-write è serializzato dal
// mutex; per un deployment multi-processo questo store andrebbe sostituito con
// un incremento atomico su database.
type ProgressiviStore struct {
	mu   sync.Mutex
	path string
}

func NewProgressiviStore(path string) *ProgressiviStore {
	return &ProgressiviStore{path: path}
}

// Next alloca e persiste il prossimo numero DDT per l'anno di riferimento,
// formattato come sequenza a 3 cifre più anno a 2 cifre (es. "007/25").
// Se la persistenza fallisce il numero non è considerato emesso: meglio una
// richiesta fallita che un numero duplicato.
func (s *ProgressiviStore) Next(now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	progressivi := map[string]int{}
	if err := readJSON(s.path, &progressivi); err != nil {
		return "", fmt.Errorf("failed to read progressivi: %w", err)
	}

	anno := now.Format("06")
	next := progressivi[anno] + 1
	progressivi[anno] = next

	if err := writeJSON(s.path, progressivi); err != nil {
		return "", fmt.Errorf("failed to persist progressivi: %w", err)
	}

	return fmt.Sprintf("%03d/%s", next, anno), nil
}
