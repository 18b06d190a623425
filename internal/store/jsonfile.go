// Package store contiene i piccoli archivi JSON su file usati accanto al
// database: progressivi DDT, profili destinatario e mappe di importazione
// Excel. Sono file modificabili a mano dall'operatore, quindi restano file e
// non tabelle. Ogni store serializza il proprio read-modify-write con un
// mutex: il contratto di concorrenza è single-process.
package store

import (
	"encoding/json"
	"errors"
	"os"
)

// readJSON carica il file in v. File mancante o contenuto non parsabile non
// sono fatali: v resta al valore di default (mappa vuota) e si riparte da lì.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Contenuto corrotto: condizione recuperabile, si riparte vuoti
		return nil
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
