package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gestionale-magazzino/internal/models"
)

// Credenziali è la tabella statica username → utente caricata all'avvio dal
// file JSON di configurazione. Non c'è gestione utenti a runtime: la rotazione
// delle credenziali passa dal file, non dal codice.
type Credenziali struct {
	utenti map[string]models.Utente
}

// LoadCredenziali legge il file delle credenziali: un array JSON di
// {username, password_hash, ruolo}. Gli username vengono normalizzati in
// maiuscolo.
func LoadCredenziali(path string) (*Credenziali, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credenziali: %w", err)
	}

	var lista []models.Utente
	if err := json.Unmarshal(data, &lista); err != nil {
		return nil, fmt.Errorf("failed to parse credenziali: %w", err)
	}

	return NewCredenziali(lista), nil
}

// NewCredenziali costruisce la tabella da una lista già in memoria
// (usata anche dai test al posto del file).
func NewCredenziali(lista []models.Utente) *Credenziali {
	utenti := make(map[string]models.Utente, len(lista))
	for _, u := range lista {
		u.Username = normalizza(u.Username)
		if u.Ruolo == "" {
			u.Ruolo = models.RuoloClient
		}
		utenti[u.Username] = u
	}
	return &Credenziali{utenti: utenti}
}

// Verifica controlla username e password e ritorna l'utente, nil se le
// credenziali non sono valide.
func (c *Credenziali) Verifica(username, password string) *models.Utente {
	u, ok := c.utenti[normalizza(username)]
	if !ok {
		return nil
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil
	}
	return &u
}

func normalizza(username string) string {
	return strings.ToUpper(strings.TrimSpace(username))
}
