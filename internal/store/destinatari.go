package store

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"gestionale-magazzino/internal/models"
)

// DestinatariStore gestisce i profili destinatario per i DDT, persistiti in
// destinatari.json con il nickname in maiuscolo come chiave. Gli errori di
// scrittura vengono loggati e ingoiati: perdere un profilo non deve far
// fallire la richiesta che lo stava salvando.
type DestinatariStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewDestinatariStore(path string, logger *zap.Logger) *DestinatariStore {
	return &DestinatariStore{path: path, logger: logger}
}

// All ritorna i nickname registrati in ordine alfabetico con i rispettivi profili.
func (s *DestinatariStore) All() map[string]models.Destinatario {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Nicknames ritorna i soli nickname, ordinati.
func (s *DestinatariStore) Nicknames() []string {
	profili := s.All()
	names := make([]string, 0, len(profili))
	for name := range profili {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get ritorna il profilo del nickname (case-insensitive), nil se assente.
func (s *DestinatariStore) Get(nickname string) *models.Destinatario {
	s.mu.Lock()
	defer s.mu.Unlock()
	profili := s.load()
	if d, ok := profili[chiave(nickname)]; ok {
		return &d
	}
	return nil
}

// Set crea o sovrascrive il profilo del nickname.
func (s *DestinatariStore) Set(nickname string, d models.Destinatario) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profili := s.load()
	profili[chiave(nickname)] = d
	s.persist(profili)
}

// Delete rimuove il profilo del nickname, se presente.
func (s *DestinatariStore) Delete(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profili := s.load()
	delete(profili, chiave(nickname))
	s.persist(profili)
}

func (s *DestinatariStore) load() map[string]models.Destinatario {
	profili := map[string]models.Destinatario{}
	if err := readJSON(s.path, &profili); err != nil {
		s.logger.Error("Errore lettura destinatari", zap.String("path", s.path), zap.Error(err))
	}
	return profili
}

func (s *DestinatariStore) persist(profili map[string]models.Destinatario) {
	if err := writeJSON(s.path, profili); err != nil {
		s.logger.Error("Errore scrittura destinatari", zap.String("path", s.path), zap.Error(err))
	}
}

func chiave(nickname string) string {
	return strings.ToUpper(strings.TrimSpace(nickname))
}
