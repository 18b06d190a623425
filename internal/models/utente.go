package models

// Ruoli applicativi. Un client vede solo gli articoli del proprio cliente.
const (
	RuoloAdmin  = "admin"
	RuoloClient = "client"
)

// Utente è una credenziale statica caricata all'avvio dal file di
// configurazione: non esiste una gestione utenti a runtime.
type Utente struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Ruolo        string `json:"ruolo"`
}

// Destinatario è un profilo di spedizione registrato per nickname
// (chiave in maiuscolo nel file destinatari.json).
type Destinatario struct {
	RagioneSociale string `json:"ragione_sociale"`
	Indirizzo      string `json:"indirizzo"`
	Piva           string `json:"piva"`
}
