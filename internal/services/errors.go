package services

import "errors"

// Errori sentinella condivisi dai service: gli handler li traducono nel
// codice HTTP appropriato.
var (
	// ErrNonTrovato indica che l'entità richiesta non esiste.
	ErrNonTrovato = errors.New("non trovato")

	// ErrNonAutorizzato indica che il chiamante non può operare sull'entità
	// (es. un client su un articolo di un altro cliente).
	ErrNonAutorizzato = errors.New("operazione non consentita")

	// ErrDateIncoerenti indica una data di uscita precedente a quella di ingresso.
	ErrDateIncoerenti = errors.New("la data di uscita non può precedere la data di ingresso")

	// ErrGiaUscito indica il tentativo di emettere un DDT su un articolo già scaricato.
	ErrGiaUscito = errors.New("uno o più articoli risultano già usciti con un DDT")
)
