package store

import (
	"fmt"
	"sync"
)

// MappaImport descrive come leggere un tracciato Excel di un fornitore:
// riga di intestazione e corrispondenza colonna sorgente → campo articolo.
type MappaImport struct {
	HeaderRow int               `json:"header_row"`
	ColumnMap map[string]string `json:"column_map"`
}

// MappeStore legge i profili di importazione da mappe_excel.json.
// Il file è curato a mano: qui si legge soltanto.
type MappeStore struct {
	mu   sync.Mutex
	path string
}

func NewMappeStore(path string) *MappeStore {
	return &MappeStore{path: path}
}

// All ritorna tutti i profili di importazione disponibili.
func (s *MappeStore) All() (map[string]MappaImport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profili := map[string]MappaImport{}
	if err := readJSON(s.path, &profili); err != nil {
		return nil, fmt.Errorf("failed to read mappe excel: %w", err)
	}
	return profili, nil
}

// Get ritorna il profilo richiesto, errore se non esiste.
func (s *MappeStore) Get(nome string) (*MappaImport, error) {
	profili, err := s.All()
	if err != nil {
		return nil, err
	}
	mappa, ok := profili[nome]
	if !ok {
		return nil, fmt.Errorf("profilo di importazione %q non trovato", nome)
	}
	return &mappa, nil
}
